package state

var (
	accountPrefix   = []byte("ledger/account:")
	globalKeyBytes  = []byte("ledger/global")
	accountIndexKey = []byte("ledger/account-index")
)
