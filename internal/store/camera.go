package store

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/san-kum/scilab/internal/camera"
)

// Camera position records are one JSON file per simulation id. The format
// is the interchange record defined by the camera package; the store
// neither inspects nor validates it beyond JSON well-formedness.

func (s *Store) cameraPath(simID string) string {
	return filepath.Join(s.baseDir, "camera", simID+".json")
}

// SaveCamera persists a saved camera position for its simulation id,
// replacing any previous record.
func (s *Store) SaveCamera(rec camera.Record) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.cameraPath(rec.SimulationID), data, 0644)
}

// LoadCamera reads the saved camera position for a simulation, if one
// exists.
func (s *Store) LoadCamera(simID string) (camera.Record, bool, error) {
	data, err := os.ReadFile(s.cameraPath(simID))
	if err != nil {
		if os.IsNotExist(err) {
			return camera.Record{}, false, nil
		}
		return camera.Record{}, false, err
	}
	var rec camera.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return camera.Record{}, false, err
	}
	return rec, true, nil
}

// ClearCamera removes a saved camera position. Missing records are not an
// error.
func (s *Store) ClearCamera(simID string) error {
	err := os.Remove(s.cameraPath(simID))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
