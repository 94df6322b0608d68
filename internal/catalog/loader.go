package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"minifignet/internal/domain"
	"minifignet/internal/validation"
)

// Sentinel errors for catalog loading
var (
	ErrInvalidCatalog = errors.New("invalid catalog")
	ErrDuplicateID    = errors.New("duplicate id")
)

// Catalog file names expected inside the catalog directory. Schemas
// live in a schemas/ subdirectory under the same names with a
// .schema.json suffix.
const (
	ItemsFile         = "items.json"
	BlueprintsFile    = "blueprints.json"
	MessageBodiesFile = "message_bodies.json"
)

// Item types a blueprint is allowed to build, and the types allowed
// as blueprint requirements. Enforced here, at registration time,
// so the crafting path never needs type introspection.
var (
	buildableTypes = map[domain.ItemType]bool{
		domain.ItemTypeBadge:       true,
		domain.ItemTypeItem:        true,
		domain.ItemTypeMasterpiece: true,
		domain.ItemTypeModule:      true,
		domain.ItemTypeMovie:       true,
		domain.ItemTypeSkin:        true,
	}
	requirableTypes = map[domain.ItemType]bool{
		domain.ItemTypeBadge: true,
		domain.ItemTypeItem:  true,
	}
)

type itemsConfig struct {
	Version        string                 `json:"version"`
	Items          []domain.Item          `json:"items"`
	StartingStacks []domain.StartingStack `json:"starting_stacks,omitempty"`
}

type blueprintsConfig struct {
	Version    string             `json:"version"`
	Blueprints []domain.Blueprint `json:"blueprints"`
}

type bodiesConfig struct {
	Version string               `json:"version"`
	Bodies  []domain.MessageBody `json:"bodies"`
}

// Loader reads and validates the catalog JSON files.
type Loader interface {
	Load(dir string) (*Catalog, error)
}

type loader struct {
	schemaValidator validation.SchemaValidator
}

// NewLoader creates a new catalog Loader.
func NewLoader() Loader {
	return &loader{schemaValidator: validation.NewSchemaValidator()}
}

// Load reads the three catalog files from dir, checks each against
// its JSON Schema, and cross-validates references before returning
// the immutable Catalog.
func (l *loader) Load(dir string) (*Catalog, error) {
	var items itemsConfig
	if err := l.readConfig(dir, ItemsFile, &items); err != nil {
		return nil, err
	}
	var blueprints blueprintsConfig
	if err := l.readConfig(dir, BlueprintsFile, &blueprints); err != nil {
		return nil, err
	}
	var bodies bodiesConfig
	if err := l.readConfig(dir, MessageBodiesFile, &bodies); err != nil {
		return nil, err
	}

	return New(items.Items, blueprints.Blueprints, bodies.Bodies, items.StartingStacks)
}

func (l *loader) readConfig(dir, name string, out interface{}) error {
	dataPath := filepath.Join(dir, name)
	schemaPath := filepath.Join(dir, "schemas", schemaName(name))

	data, err := os.ReadFile(dataPath)
	if err != nil {
		return fmt.Errorf("failed to read catalog file %s: %w", dataPath, err)
	}
	if err := l.schemaValidator.ValidateBytes(data, schemaPath); err != nil {
		return fmt.Errorf("catalog file %s: %w", name, err)
	}
	if err := unmarshalStrict(data, out); err != nil {
		return fmt.Errorf("failed to parse catalog file %s: %w", name, err)
	}
	return nil
}

// unmarshalStrict rejects unknown fields so typos in catalog files
// fail loudly instead of silently loading defaults.
func unmarshalStrict(data []byte, out interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(out)
}

func schemaName(dataName string) string {
	ext := filepath.Ext(dataName)
	return dataName[:len(dataName)-len(ext)] + ".schema.json"
}

// New assembles the lookup maps and enforces every catalog-level
// constraint: unique ids, known item types, blueprint build/requirement
// type restrictions, easy replies referencing registered bodies, and
// starting stacks referencing registered items.
func New(items []domain.Item, blueprints []domain.Blueprint, bodies []domain.MessageBody, startingStacks []domain.StartingStack) (*Catalog, error) {
	c := &Catalog{
		items:          make(map[int]domain.Item, len(items)),
		blueprints:     make(map[int]domain.Blueprint, len(blueprints)),
		bodies:         make(map[int]domain.MessageBody, len(bodies)),
		startingStacks: startingStacks,
	}

	for _, item := range items {
		if item.ID <= 0 {
			return nil, fmt.Errorf("%w: item %q has non-positive id %d", ErrInvalidCatalog, item.Name, item.ID)
		}
		if !domain.ValidItemTypes[item.Type] {
			return nil, fmt.Errorf("%w: item %d has unknown type %q", ErrInvalidCatalog, item.ID, item.Type)
		}
		if _, exists := c.items[item.ID]; exists {
			return nil, fmt.Errorf("%w: item %d", ErrDuplicateID, item.ID)
		}
		c.items[item.ID] = item
	}

	for _, bp := range blueprints {
		if err := validateBlueprint(c, bp); err != nil {
			return nil, err
		}
		if _, exists := c.blueprints[bp.ItemID]; exists {
			return nil, fmt.Errorf("%w: blueprint %d", ErrDuplicateID, bp.ItemID)
		}
		c.blueprints[bp.ItemID] = bp
	}

	for _, body := range bodies {
		if body.ID <= 0 {
			return nil, fmt.Errorf("%w: message body %q has non-positive id %d", ErrInvalidCatalog, body.Subject, body.ID)
		}
		if _, exists := c.bodies[body.ID]; exists {
			return nil, fmt.Errorf("%w: message body %d", ErrDuplicateID, body.ID)
		}
		c.bodies[body.ID] = body
	}
	// Easy replies can only be checked once all bodies are registered
	for _, body := range c.bodies {
		for _, replyID := range body.EasyReplies {
			if _, ok := c.bodies[replyID]; !ok {
				return nil, fmt.Errorf("%w: message body %d lists unknown easy reply %d", ErrInvalidCatalog, body.ID, replyID)
			}
		}
	}

	for _, stack := range startingStacks {
		if _, ok := c.items[stack.ItemID]; !ok {
			return nil, fmt.Errorf("%w: starting stack references unknown item %d", ErrInvalidCatalog, stack.ItemID)
		}
		if stack.Quantity <= 0 {
			return nil, fmt.Errorf("%w: starting stack of item %d has non-positive quantity", ErrInvalidCatalog, stack.ItemID)
		}
	}

	return c, nil
}

func validateBlueprint(c *Catalog, bp domain.Blueprint) error {
	item, ok := c.items[bp.ItemID]
	if !ok {
		return fmt.Errorf("%w: blueprint references unknown item %d", ErrInvalidCatalog, bp.ItemID)
	}
	if item.Type != domain.ItemTypeBlueprint {
		return fmt.Errorf("%w: blueprint item %d has type %q, want %q", ErrInvalidCatalog, bp.ItemID, item.Type, domain.ItemTypeBlueprint)
	}

	build, ok := c.items[bp.BuildItemID]
	if !ok {
		return fmt.Errorf("%w: blueprint %d builds unknown item %d", ErrInvalidCatalog, bp.ItemID, bp.BuildItemID)
	}
	if !buildableTypes[build.Type] {
		return fmt.Errorf("%w: blueprint %d builds item of type %q", ErrInvalidCatalog, bp.ItemID, build.Type)
	}

	seen := make(map[int]bool, len(bp.Requirements))
	for _, req := range bp.Requirements {
		reqItem, ok := c.items[req.ItemID]
		if !ok {
			return fmt.Errorf("%w: blueprint %d requires unknown item %d", ErrInvalidCatalog, bp.ItemID, req.ItemID)
		}
		if !requirableTypes[reqItem.Type] {
			return fmt.Errorf("%w: blueprint %d requires item of type %q", ErrInvalidCatalog, bp.ItemID, reqItem.Type)
		}
		if req.Quantity <= 0 {
			return fmt.Errorf("%w: blueprint %d requires non-positive quantity of item %d", ErrInvalidCatalog, bp.ItemID, req.ItemID)
		}
		if seen[req.ItemID] {
			return fmt.Errorf("%w: blueprint %d requirement item %d", ErrDuplicateID, bp.ItemID, req.ItemID)
		}
		seen[req.ItemID] = true
	}
	return nil
}
