package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/trendscope/pkg/domain"
	"github.com/umputun/trendscope/pkg/favorites"
)

func TestFavoriteRequest_Input(t *testing.T) {
	ten := 10
	zero := 0
	bad := -2

	tests := []struct {
		name    string
		req     favoriteRequest
		want    favorites.Input
		wantErr bool
	}{
		{name: "defaults", req: favoriteRequest{Query: "go"},
			want: favorites.Input{Query: "go", TimeFrame: domain.Last24Hours, MaxResults: -1, SearchType: domain.SearchChannel}},
		{name: "explicit", req: favoriteRequest{Query: "go", TimeFrame: "last_3_months", MaxResults: &ten, SearchType: "keyword", Label: "L"},
			want: favorites.Input{Query: "go", TimeFrame: domain.Last3Months, MaxResults: 10, SearchType: domain.SearchKeyword, Label: "L"}},
		{name: "unlimited", req: favoriteRequest{Query: "go", MaxResults: &zero},
			want: favorites.Input{Query: "go", TimeFrame: domain.Last24Hours, MaxResults: 0, SearchType: domain.SearchChannel}},
		{name: "unknown search type is channel", req: favoriteRequest{Query: "go", SearchType: "playlist"},
			want: favorites.Input{Query: "go", TimeFrame: domain.Last24Hours, MaxResults: -1, SearchType: domain.SearchChannel}},
		{name: "legacy label is rejected", req: favoriteRequest{Query: "go", TimeFrame: "Letzte Woche"}, wantErr: true},
		{name: "below auto", req: favoriteRequest{Query: "go", MaxResults: &bad}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.req.input()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseMaxResults(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "", want: -1},
		{in: "-1", want: -1},
		{in: "0", want: 0},
		{in: "250", want: 250},
		{in: "-5", wantErr: true},
		{in: "ten", wantErr: true},
	}
	for _, tt := range tests {
		got, err := parseMaxResults(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
