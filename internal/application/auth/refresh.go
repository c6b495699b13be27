package auth

// RefreshToken exchanges a valid session token for a fresh one with the same
// claims and a full TTL. Identity is taken from the presented token, not
// re-read from the sheet: a role change lands on the next login.
func (s *Service) RefreshToken(token string) (string, int64, error) {
	claims, err := s.signer.VerifySession(token)
	if err != nil {
		return "", 0, err
	}

	fresh, err := s.signer.SignSession(claims.UserID, claims.Email, claims.Role, s.sessionTTL)
	if err != nil {
		return "", 0, err
	}
	return fresh, int64(s.sessionTTL.Seconds()), nil
}
