// Package wallet models the append-only ledger behind seller, courier, buyer and platform wallets.
//
// An Entry is an immutable signed posting against one Account. Earnings are credited as
// pending until their settlesAt time has passed and a Settlement record moves them to the
// available balance; every other posting is available immediately. The Account carries
// cached available/pending balances whose sum always equals the sum of its entries.
package wallet
