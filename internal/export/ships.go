package export

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/bno1/X4FProjector/internal/macro"
)

// shipCols is the tabular column selection for ships. Docking bay details
// stay structured-only.
var shipCols = []string{
	"name",
	"class",
	"type",
	"purpose",
	"hull",
	"people",
	"cargobay",
	"storage",
	"missile_storage",
	"drone_storage",
	"num_engines",
	"num_shields",
	"num_weapons",
	"num_turrets",
	"num_countermeasures",
	"s_docks",
	"m_docks",
	"shipstorage_s",
	"shipstorage_m",
	"launchtubes_s",
	"launchtubes_m",
	"mass",
	"drag_forward",
	"drag_reverse",
	"drag_horizontal",
	"drag_vertical",
	"drag_pitch",
	"drag_yaw",
	"drag_roll",
	"inertia_pitch",
	"inertia_yaw",
	"inertia_roll",
}

// CollectShips flattens every loaded ship macro into an exportable property
// map, folding in the data attached through connections: docking bays,
// cargo storage, drone and ship storage, launch tubes.
//
// Dependencies must have been resolved first or the folded data will be
// incomplete.
func CollectShips(db *macro.DB) map[string]map[string]any {
	ships := map[string]map[string]any{}

	for _, size := range []string{"xs", "s", "m", "l", "xl"} {
		for _, shipID := range db.MacrosByType["ship_"+size] {
			m := db.Macros[shipID]

			ship := make(map[string]any, len(m.Properties)+10)
			for k, v := range m.Properties {
				ship[k] = v
			}

			ship["dockingbays"] = []map[string]any{}
			ship["cargobay"] = int64(0)
			ship["storage"] = []string{}
			ship["s_docks"] = int64(0)
			ship["m_docks"] = int64(0)
			ship["drone_storage"] = int64(0)
			ship["shipstorage_s"] = int64(0)
			ship["shipstorage_m"] = int64(0)
			ship["launchtubes_s"] = int64(0)
			ship["launchtubes_m"] = int64(0)

			visited := map[string]struct{}{shipID: {}}
			foldConnections(db, m.Connections, ship, shipID, visited)

			ships[shipID] = ship
		}
	}

	return ships
}

// foldConnections walks the connection graph below a ship and accumulates the
// attached equipment into the ship map. visited holds the macros on the
// current walk path so that cyclic graphs terminate; the same bay macro
// attached at several sibling slots still counts once per slot.
func foldConnections(db *macro.DB, conns []macro.Connection, ship map[string]any, shipID string, visited map[string]struct{}) {
	for _, conn := range conns {
		if _, ok := visited[conn.Ref]; ok {
			continue
		}

		m, ok := db.Macros[conn.Ref]
		if !ok {
			continue
		}
		visited[conn.Ref] = struct{}{}

		switch m.Type {
		case "cockpit", "dockarea", "buildmodule", "buildprocessor", "destructible":
			// Nothing to fold, but their connections can lead to docking
			// bays.
		case "dockingbay":
			foldDockingbay(m, ship)
		case "storage":
			ship["cargobay"] = m.Properties["cargobay"]
			if st, ok := m.Properties["storage_type"].(string); ok {
				ship["storage"] = strings.Fields(st)
			}
		default:
			logrus.Warnf("unhandled connection type %s when exporting ship %s", m.Type, shipID)
		}

		foldConnections(db, m.Connections, ship, shipID, visited)
		delete(visited, conn.Ref)
	}
}

func foldDockingbay(m *macro.Macro, ship map[string]any) {
	bay := make(map[string]any, len(m.Properties)+1)
	for k, v := range m.Properties {
		bay[k] = v
	}
	bay["name"] = m.Name

	ship["dockingbays"] = append(ship["dockingbays"].([]map[string]any), bay)

	docksize, _ := bay["docksize"].(string)
	capacity, _ := bay["dock_capacity"].(int64)
	storage, _ := bay["dock_storage"].(int64)

	addTo := func(key string) {
		ship[key] = ship[key].(int64) + capacity
	}

	if storage != 0 {
		if strings.Contains(docksize, "dock_xs") {
			addTo("drone_storage")
		}
		if strings.Contains(docksize, "dock_s") {
			addTo("shipstorage_s")
		}
		if strings.Contains(docksize, "dock_m") {
			addTo("shipstorage_m")
		}
	}

	if strings.HasPrefix(m.Name, "dockingbay") {
		if strings.Contains(docksize, "dock_s") {
			addTo("s_docks")
		}
		if strings.Contains(docksize, "dock_m") {
			addTo("m_docks")
		}
	}

	if strings.HasPrefix(m.Name, "launchtube") {
		if strings.Contains(docksize, "dock_s") {
			addTo("launchtubes_s")
		}
		if strings.Contains(docksize, "dock_m") {
			addTo("launchtubes_m")
		}
	}
}

// Ships exports every loaded ship.
func Ships(db *macro.DB, dest string, format Format) error {
	ships := CollectShips(db)
	return write(dest, format, "ships", func() [][]any {
		return tabulate(ships, shipCols)
	}, ships)
}
