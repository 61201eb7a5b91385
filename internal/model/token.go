package model

// TokenManager issues and validates signed bearer tokens carrying only a
// user id.
type TokenManager interface {
	Issue(userID int64) (string, error)
	Parse(token string) (int64, error)
}
