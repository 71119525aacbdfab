package accounts

const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

func ValidRole(r string) bool { return r == RoleAdmin || r == RoleStaff }

// Account is one row of the accounts table. PasswordHash holds a bcrypt
// hash, or a legacy plaintext credential for rows predating hashing.
type Account struct {
	AccountID    string
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	Role         string
}
