package domain

// MaxTransactionQuantity caps the quantity accepted by any single
// inventory mutation, keeping obviously bogus requests out of the
// transaction path.
const MaxTransactionQuantity = 10000
