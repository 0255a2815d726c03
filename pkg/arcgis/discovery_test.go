package arcgis

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func endpointStrings(eps []Endpoint) []string {
	out := make([]string, len(eps))
	for i, ep := range eps {
		out[i] = ep.RelativeURL()
	}
	return out
}

func TestDescribeSite(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/arcgis/rest/services/Maps", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"currentVersion":10.2,"folders":[],"services":[{"name":"B","type":"FeatureServer"}]}`))
	})
	mux.HandleFunc("/arcgis/rest/services/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"currentVersion":10.1,"folders":["Maps"],"services":[{"name":"A","type":"MapServer"}]}`))
	})

	g, _ := newTestGateway(t, mux)

	desc, err := g.DescribeSite(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "10.2", desc.Version)
	assert.Equal(t, []string{"A/MapServer", "Maps/B/FeatureServer"}, endpointStrings(desc.Resources))
}

func TestDescribeSiteSkipsInaccessibleFolders(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/arcgis/rest/services/Secret", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "access denied", http.StatusForbidden)
	})
	mux.HandleFunc("/arcgis/rest/services/Open", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"currentVersion":10.1,"services":[{"name":"B","type":"MapServer"}]}`))
	})
	mux.HandleFunc("/arcgis/rest/services/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"currentVersion":10.1,"folders":["Secret","Open"],"services":[]}`))
	})

	g, _ := newTestGateway(t, mux)

	desc, err := g.DescribeSite(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Open/B/MapServer"}, endpointStrings(desc.Resources))
}

func TestDescribeSiteInaccessibleRoot(t *testing.T) {
	g, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "access denied", http.StatusForbidden)
	}))

	desc, err := g.DescribeSite(context.Background())
	require.NoError(t, err)
	assert.Empty(t, desc.Resources)
	assert.Empty(t, desc.Version)
}

func TestDescribeSitePropagatesOperationErrors(t *testing.T) {
	g, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":{"code":500,"message":"boom","details":[]}}`))
	}))

	_, err := g.DescribeSite(context.Background())
	assert.ErrorIs(t, err, ErrOperation)
}

func TestDescribeSiteDepthGuard(t *testing.T) {
	// a folder listing itself as a child would never terminate
	// without the depth guard
	var fetches atomic.Int32
	g, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetches.Add(1)
		w.Write([]byte(`{"currentVersion":10.1,"folders":["Loop"],"services":[]}`))
	}), WithMaxDiscoveryDepth(3))

	_, err := g.DescribeSite(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(3), fetches.Load())
}

func TestDescribeSiteDoesNotDoubleFolderPrefix(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/arcgis/rest/services/Maps", func(w http.ResponseWriter, r *http.Request) {
		// server reports the qualified name already
		w.Write([]byte(`{"currentVersion":10.1,"services":[{"name":"Maps/B","type":"MapServer"}]}`))
	})
	mux.HandleFunc("/arcgis/rest/services/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"currentVersion":10.1,"folders":["Maps"],"services":[]}`))
	})

	g, _ := newTestGateway(t, mux)

	desc, err := g.DescribeSite(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Maps/B/MapServer"}, endpointStrings(desc.Resources))
}

func TestDescribeSiteVersionMax(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/arcgis/rest/services/New", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"currentVersion":10.9,"services":[]}`))
	})
	mux.HandleFunc("/arcgis/rest/services/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"currentVersion":10.81,"folders":["New"],"services":[]}`))
	})

	g, _ := newTestGateway(t, mux)

	desc, err := g.DescribeSite(context.Background())
	require.NoError(t, err)
	// versions are decimals: 10.9 is the later release, not 10.81
	assert.Equal(t, "10.9", desc.Version)
}
