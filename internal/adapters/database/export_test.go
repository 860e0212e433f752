package database

// CreateConversation exposes the insert path of GetOrCreateConversation so a
// lost creation race can be replayed without concurrent transactions.
var CreateConversation = (*ChatRepositoryDatabase).createConversation
