package prc

// AccountRequirement is the account verification level a server demands on
// join.
type AccountRequirement string

const (
	AccountRequirementDisabled AccountRequirement = "Disabled"
	AccountRequirementEmail    AccountRequirement = "Email"
	AccountRequirementPhone    AccountRequirement = "Phone/ID"
)

// ServerStatus is the snapshot returned by the status endpoint. Field names
// follow the wire payload.
type ServerStatus struct {
	Name               string             `json:"Name"`
	OwnerID            int                `json:"OwnerId"`
	CoOwnerIDs         []int              `json:"CoOwnerIds"`
	PlayerCount        int                `json:"CurrentPlayers"`
	MaxPlayers         int                `json:"MaxPlayers"`
	JoinKey            string             `json:"JoinKey"`
	AccountRequirement AccountRequirement `json:"AccVerifiedReq"`
	TeamBalance        bool               `json:"TeamBalance"`
}
