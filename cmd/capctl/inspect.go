package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/rawbytedev/capsule"
	"github.com/rawbytedev/capsule/stream"
)

// schemaEntry maps one raw discriminant value to a name and payload size.
type schemaEntry struct {
	Tag  uint32 `yaml:"tag"`
	Name string `yaml:"name"`
	Size int    `yaml:"size"`
}

type schema struct {
	Width   int           `yaml:"width"` // discriminant width in bits
	Entries []schemaEntry `yaml:"entries"`

	byTag map[uint32]schemaEntry
}

func loadSchema(path string) (*schema, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseSchema(raw)
}

func parseSchema(raw []byte) (*schema, error) {
	var sc schema
	if err := yaml.Unmarshal(raw, &sc); err != nil {
		return nil, fmt.Errorf("schema: %w", err)
	}
	if _, err := widthFromBits(sc.Width); err != nil {
		return nil, err
	}
	if len(sc.Entries) == 0 {
		return nil, fmt.Errorf("schema: no entries")
	}
	sc.byTag = make(map[uint32]schemaEntry, len(sc.Entries))
	for _, e := range sc.Entries {
		if e.Size <= 0 {
			return nil, fmt.Errorf("schema: entry %q has size %d", e.Name, e.Size)
		}
		if _, dup := sc.byTag[e.Tag]; dup {
			return nil, fmt.Errorf("schema: duplicate tag %#x", e.Tag)
		}
		sc.byTag[e.Tag] = e
	}
	return &sc, nil
}

func widthFromBits(bits int) (capsule.Width, error) {
	switch bits {
	case 8:
		return capsule.W8, nil
	case 16:
		return capsule.W16, nil
	case 32:
		return capsule.W32, nil
	default:
		return 0, fmt.Errorf("schema: width must be 8, 16 or 32 bits, got %d", bits)
	}
}

// streamEntry is one walked entry of a stream file.
type streamEntry struct {
	Offset int
	Tag    uint32
	Name   string
	Size   int
}

// walkStream scans discriminant-prefixed entries, using the schema to skip
// each payload. It stops with an error at the first tag the schema does
// not know, since the payload size is then unknowable.
func walkStream(data []byte, w capsule.Width, sc *schema) ([]streamEntry, error) {
	s := stream.NewFrom(w, data)
	var out []streamEntry
	for s.Remaining() > 0 {
		off := s.Len() - s.Remaining()
		next, ok, err := s.PeekTag()
		if err != nil {
			return out, fmt.Errorf("offset %d: %w", off, err)
		}
		if !ok {
			break
		}
		e, known := sc.byTag[next.Raw()]
		if !known {
			return out, fmt.Errorf("offset %d: tag %#x not in schema", off, next.Raw())
		}
		if err := s.Discard(e.Size); err != nil {
			return out, fmt.Errorf("offset %d: entry %q: %w", off, e.Name, err)
		}
		out = append(out, streamEntry{Offset: off, Tag: e.Tag, Name: e.Name, Size: e.Size})
	}
	return out, nil
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <stream-file>",
	Short: "Walk a stream file and list its entries",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func init() {
	inspectCmd.Flags().String("schema", "", "YAML tag schema file")
	inspectCmd.Flags().Int("width", 0, "discriminant width in bits (overrides schema)")
}

func runInspect(cmd *cobra.Command, args []string) error {
	if err := viper.BindPFlag("schema", cmd.Flags().Lookup("schema")); err != nil {
		return err
	}
	if err := viper.BindPFlag("width", cmd.Flags().Lookup("width")); err != nil {
		return err
	}

	schemaPath := viper.GetString("schema")
	if schemaPath == "" {
		return fmt.Errorf("a tag schema is required (--schema, CAPCTL_SCHEMA, or config)")
	}
	sc, err := loadSchema(schemaPath)
	if err != nil {
		return err
	}
	logger.Debug("schema loaded",
		zap.String("path", schemaPath),
		zap.Int("entries", len(sc.Entries)),
		zap.Int("width_bits", sc.Width))

	bits := sc.Width
	if v := viper.GetInt("width"); v != 0 {
		bits = v
	}
	w, err := widthFromBits(bits)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	entries, walkErr := walkStream(data, w, sc)
	for _, e := range entries {
		fmt.Printf("%8d  %-16s  tag=%#06x  %d bytes\n", e.Offset, e.Name, e.Tag, e.Size)
	}
	if walkErr != nil {
		logger.Error("walk stopped", zap.Error(walkErr))
		return walkErr
	}
	fmt.Printf("%d entries, %d bytes\n", len(entries), len(data))
	return nil
}
