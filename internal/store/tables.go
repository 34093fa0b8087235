package store

// Tables holds the configurable table names.
type Tables struct {
	Trades    string
	Positions string
	Movements string
	FifoLog   string
	Analytics string
	Balances  string
	Status    string
}

// DefaultTables returns the conventional table names.
func DefaultTables() Tables {
	return Tables{
		Trades:    "Core_Trades",
		Positions: "Open_Positions",
		Movements: "Fund_Movements",
		FifoLog:   "Fifo_Log",
		Analytics: "Analytics",
		Balances:  "Account_Balances",
		Status:    "System_Status",
	}
}
