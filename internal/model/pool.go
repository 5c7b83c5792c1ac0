package model

// PoolSnapshot is the persisted accounting state of the pool. Amounts are
// decimal wei strings so arbitrary-precision values survive JSON and SQL.
type PoolSnapshot struct {
	ClaimedShares   string `json:"claimed_shares"`
	AccruedFee      string `json:"accrued_fee"`
	Balance         string `json:"balance"`
	LotsProvisioned uint64 `json:"lots_provisioned"`
}

// TokenSnapshot is the persisted state of the share token mirror.
type TokenSnapshot struct {
	Supply   string            `json:"supply"`
	Balances map[string]string `json:"balances"`
}

// WrappedSnapshot is the persisted state of the auto-compounding vault mirror.
type WrappedSnapshot struct {
	TotalShares string            `json:"total_shares"`
	TotalAssets string            `json:"total_assets"`
	Shares      map[string]string `json:"shares"`
}

// ParamsSnapshot is the persisted operator parameter set.
type ParamsSnapshot struct {
	UnitsPerLot          uint64 `json:"units_per_lot"`
	AdminFee             string `json:"admin_fee"`
	Buffer               string `json:"buffer"`
	RefundFeesOnWithdraw bool   `json:"refund_fees_on_withdraw"`
	WithdrawalCredential string `json:"withdrawal_credential"`
}

// VaultSnapshot bundles everything the CLI persists between invocations.
type VaultSnapshot struct {
	Pool      PoolSnapshot    `json:"pool"`
	Token     TokenSnapshot   `json:"token"`
	Wrapped   WrappedSnapshot `json:"wrapped"`
	Params    ParamsSnapshot  `json:"params"`
	UpdatedAt string          `json:"updated_at"`
}
