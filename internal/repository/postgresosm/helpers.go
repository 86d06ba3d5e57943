package postgresosm

import (
	"fmt"
	"strings"
)

// elementType maps an osm2pgsql row to its OSM element type. Polygons built
// from relations carry a negated osm_id.
func elementType(table string, osmID int64) (string, int64) {
	if table == planetPointTable {
		return "node", osmID
	}
	if osmID < 0 {
		return "relation", -osmID
	}
	return "way", osmID
}

func spotID(kind string, id int64) string {
	return fmt.Sprintf("osm:%s:%d", kind, id)
}

func optionalTag(val string) *string {
	if v := strings.TrimSpace(val); v != "" {
		return &v
	}
	return nil
}
