package store

// sessionsOverride is a Store whose session repository lives in another
// backend, e.g. redis.
type sessionsOverride struct {
	Store
	sessions Sessions
}

// WithSessions returns s with its Sessions() repository replaced. Transactions
// opened on the result still use the database for users and contacts; session
// writes go to the override and are not part of the transaction.
func WithSessions(s Store, sessions Sessions) Store {
	return &sessionsOverride{Store: s, sessions: sessions}
}

func (o *sessionsOverride) Sessions() Sessions { return o.sessions }
