package localdata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadStarships(t *testing.T) {
	dir := t.TempDir()
	content := `{
		"records": [
			{
				"local_id": "local-starship-1",
				"name": "Stellar Envoy",
				"model": "YT-1300",
				"crew": "4",
				"pilots": ["local-person-1", "https://x/people/14/"],
				"url": ""
			}
		]
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "starships.json"), []byte(content), 0o600))

	ships, err := Open(dir).LoadStarships()
	require.NoError(t, err)
	require.Len(t, ships, 1)
	assert.Equal(t, "local-starship-1", ships[0].LocalID)
	assert.Equal(t, "Stellar Envoy", ships[0].Name)
	assert.Equal(t, []string{"local-person-1", "https://x/people/14/"}, ships[0].Pilots)
}

func TestLoad_MissingFileReturnsNoRecords(t *testing.T) {
	ships, err := Open(t.TempDir()).LoadStarships()
	require.NoError(t, err)
	assert.Empty(t, ships)
}

func TestLoad_MalformedJSON(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "planets.json"), []byte("{not json"), 0o600))

	_, err := Open(dir).LoadPlanets()
	assert.Error(t, err)
}
