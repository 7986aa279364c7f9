package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Faultbox/wardrobe/internal/logger"
	"github.com/Faultbox/wardrobe/pkg/appearance"
)

// ErrNotFound is returned by Load when no state is saved for an entity.
var ErrNotFound = errors.New("entity state not found")

// stateRecord is one saved entity. The host bag is kept whole so loading
// goes through the same migration path as live host data.
type stateRecord struct {
	EntityID  string         `gorm:"primaryKey;size:128"`
	HairColor uint32         `gorm:"not null"`
	Facing    int            `gorm:"not null;default:2"`
	LastTick  uint64         `gorm:"not null;default:0"`
	ModData   datatypes.JSON `gorm:"not null"`
	UpdatedAt time.Time
}

func (stateRecord) TableName() string { return "entity_appearance_states" }

// Store persists entity appearance state in SQLite.
type Store struct {
	db  *gorm.DB
	log *zap.Logger
}

// Open opens or creates the store at path. An empty path opens a private
// in-memory database.
func Open(path string, log *zap.Logger) (*Store, error) {
	log = logger.OrNop(log)

	dsn := path
	if dsn == "" {
		dsn = "file::memory:"
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open state store: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("open state store: %w", err)
	}
	// every connection to file::memory: is a separate database
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&stateRecord{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrate state store: %w", err)
	}

	if path == "" {
		log.Debug("Using in-memory state store")
	} else {
		log.Info("Opened state store", zap.String("path", path))
	}
	return &Store{db: db, log: log}, nil
}

// Save writes s, replacing any previous save for the same entity.
func (st *Store) Save(s *EntityAppearanceState) error {
	data, err := json.Marshal(s.ToModData())
	if err != nil {
		return fmt.Errorf("save %s: %w", s.EntityID, err)
	}
	rec := stateRecord{
		EntityID:  s.EntityID,
		HairColor: s.HairColor.Packed(),
		Facing:    int(s.Facing),
		LastTick:  s.LastTick,
		ModData:   datatypes.JSON(data),
	}
	err = st.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("save %s: %w", s.EntityID, err)
	}
	return nil
}

// Load reads the saved state for entityID. Corrupt values are healed and
// returned alongside the state; they never fail the load.
func (st *Store) Load(entityID string) (*EntityAppearanceState, []error, error) {
	var rec stateRecord
	err := st.db.Where("entity_id = ?", entityID).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, fmt.Errorf("load %s: %w", entityID, ErrNotFound)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load %s: %w", entityID, err)
	}

	bag := map[string]string{}
	if len(rec.ModData) > 0 {
		if err := json.Unmarshal(rec.ModData, &bag); err != nil {
			st.log.Warn("Discarding unreadable saved state",
				zap.String("entity", entityID), zap.Error(err))
			bag = map[string]string{}
		}
	}

	s, healed := FromModData(entityID, appearance.FromPacked(rec.HairColor), bag)
	for _, h := range healed {
		st.log.Debug("Healed saved state", zap.String("entity", entityID), zap.Error(h))
	}
	return s, healed, nil
}

// List returns the saved entity ids in ascending order.
func (st *Store) List() ([]string, error) {
	var ids []string
	err := st.db.Model(&stateRecord{}).Order("entity_id").Pluck("entity_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("list states: %w", err)
	}
	return ids, nil
}

// Delete removes the saved state for entityID. Deleting a missing entity is not an error.
func (st *Store) Delete(entityID string) error {
	if err := st.db.Where("entity_id = ?", entityID).Delete(&stateRecord{}).Error; err != nil {
		return fmt.Errorf("delete %s: %w", entityID, err)
	}
	return nil
}

// Close releases the database.
func (st *Store) Close() error {
	sqlDB, err := st.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
