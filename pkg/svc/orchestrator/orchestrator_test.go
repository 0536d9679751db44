package orchestrator_test

import (
	"testing"

	"github.com/arrbiter/arrctl/pkg/svc/orchestrator"
	"github.com/stretchr/testify/assert"
)

func TestAllCreated(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		services []orchestrator.Service
		want     bool
	}{
		{
			name: "all services have containers",
			services: []orchestrator.Service{
				{Name: "gluetun", Container: "gluetun", Running: true},
				{Name: "qbittorrent", Container: "qbittorrent"},
			},
			want: true,
		},
		{
			name: "one service has no container yet",
			services: []orchestrator.Service{
				{Name: "gluetun", Container: "gluetun"},
				{Name: "sonarr"},
			},
			want: false,
		},
		{
			name:     "no services declared",
			services: nil,
			want:     false,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, testCase.want, orchestrator.AllCreated(testCase.services))
		})
	}
}
