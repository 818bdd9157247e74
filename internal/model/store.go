package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/rewired-gh/nbafuse/internal/logger"
	"github.com/rewired-gh/nbafuse/internal/models"
	"github.com/rewired-gh/nbafuse/internal/storage"
)

// Loader reads serialized classifiers.
type Loader interface {
	LoadModel(name string) (*storage.SavedModel, error)
}

// Store persists serialized classifiers.
type Store interface {
	Loader
	SaveModel(m *storage.SavedModel) error
}

// Save stores c under its name.
func Save(store Store, c *Classifier) error {
	payload, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode model %s: %w", c.Name, err)
	}
	return store.SaveModel(&storage.SavedModel{
		Name:      c.Name,
		Target:    c.Target,
		Precision: c.Precision,
		Payload:   payload,
		TrainedAt: time.Now(),
	})
}

// Load reads the classifier stored under name.
func Load(store Loader, name string) (*Classifier, error) {
	saved, err := store.LoadModel(name)
	if err != nil {
		return nil, err
	}
	var c Classifier
	if err := json.Unmarshal(saved.Payload, &c); err != nil {
		return nil, fmt.Errorf("failed to decode model %s: %w", name, err)
	}
	if len(c.Weights) != len(c.Features) || len(c.Mean) != len(c.Features) || len(c.Scale) != len(c.Features) {
		return nil, fmt.Errorf("model %s is corrupt: %d features, %d weights", name, len(c.Features), len(c.Weights))
	}
	return &c, nil
}

// TrainAll trains every classifier in Specs on t and stores the results.
// A classifier that fails to train does not stop the others; the first error
// is returned after all have been attempted.
func TrainAll(store Store, t *models.Table, cfg Config) ([]*Classifier, error) {
	var trained []*Classifier
	var firstErr error
	for _, spec := range Specs {
		c, err := Train(t, spec, cfg)
		if err == nil {
			err = Save(store, c)
		}
		if err != nil {
			logger.Error("Training %s failed: %v", spec.Name, err)
			if firstErr == nil {
				firstErr = fmt.Errorf("failed to train %s: %w", spec.Name, err)
			}
			continue
		}
		logger.Info("Trained %s on %d rows (%d features), hold-out precision %.3f",
			c.Name, c.TrainRows, len(c.Features), c.Precision)
		trained = append(trained, c)
	}
	return trained, firstErr
}
