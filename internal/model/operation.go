package model

// OperationRecord is one committed accounting mutation, appended to the
// operation journal and mirrored to Postgres for reporting.
type OperationRecord struct {
	Kind            string `json:"kind"`
	Caller          string `json:"caller"`
	Gross           string `json:"gross"`
	Net             string `json:"net"`
	Fee             string `json:"fee"`
	ClaimedShares   string `json:"claimed_shares"`
	AccruedFee      string `json:"accrued_fee"`
	Balance         string `json:"balance"`
	LotsProvisioned uint64 `json:"lots_provisioned"`
	Timestamp       uint64 `json:"timestamp"`
}
