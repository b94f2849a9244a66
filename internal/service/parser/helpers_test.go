package parser

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/identity"
	identitySvc "github.com/cmlabs-hris/attendance-ledger-go/internal/service/identity"
	"github.com/stretchr/testify/require"
)

func newTestResolver(t *testing.T) identity.Resolver {
	t.Helper()
	r, err := identitySvc.NewResolver([]identity.Employee{
		{ID: "37", DisplayName: "Alcalde, Eduardo Jorge", Aliases: []string{"Alcalde Eduardo"}},
		{ID: "67", DisplayName: "Arroyo, Ivana", Aliases: []string{"Arroyo Ivana"}},
	})
	require.NoError(t, err)
	return r
}

func at(s string) time.Time {
	t, err := time.Parse("2006-01-02 15:04:05", s)
	if err != nil {
		panic(err)
	}
	return t
}
