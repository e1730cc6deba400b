package mongo

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/biohealth/ponto/internal/core/ports"
)

var (
	_ ports.EventRepository  = (*EventRepository)(nil)
	_ ports.WorkerRepository = (*WorkerRepository)(nil)
	_ ports.SiteRepository   = (*SiteRepository)(nil)
	_ ports.UserRepository   = (*UserRepository)(nil)
	_ ports.AuditRepository  = (*AuditRepository)(nil)
	_ ports.Transactor       = (*Store)(nil)
)

func TestToUser_ConvertsTimestamps(t *testing.T) {
	created := time.Date(2024, 5, 10, 11, 0, 0, 0, time.UTC)
	u := toUser(mongoUser{
		ID:          "u1",
		Username:    "admin",
		Role:        "manager",
		Permissions: []string{"gestao"},
		CreatedAt:   created.Unix(),
	})
	if !u.CreatedAt.Equal(created) {
		t.Fatalf("expected %v, got %v", created, u.CreatedAt)
	}
	if !u.UpdatedAt.IsZero() {
		t.Fatalf("zero unix time should map to zero time, got %v", u.UpdatedAt)
	}
	if !u.Can("gestao") {
		t.Fatalf("permissions lost")
	}
}

func TestSupportsTransactions(t *testing.T) {
	cases := map[string]struct {
		hello bson.M
		want  bool
	}{
		"replica set":   {bson.M{"isWritablePrimary": true, "setName": "rs0"}, true},
		"mongos":        {bson.M{"isWritablePrimary": true, "msg": "isdbgrid"}, true},
		"standalone":    {bson.M{"isWritablePrimary": true}, false},
		"empty setName": {bson.M{"setName": ""}, false},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if got := supportsTransactions(tc.hello); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestStore_TransactorOnStandalone(t *testing.T) {
	if tx := (&Store{}).Transactor(); tx != nil {
		t.Fatalf("standalone store must not offer transactions")
	}
	s := &Store{txCapable: true}
	if tx := s.Transactor(); tx != s {
		t.Fatalf("expected the store as transactor")
	}
}
