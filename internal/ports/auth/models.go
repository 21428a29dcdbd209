package auth

// Claims es lo que sale de verificar un token. UserID es el owner de los
// datos (pets.owner_id).
type Claims struct {
	UserID string
	Email  string
}
