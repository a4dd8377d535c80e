package globals

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/fieldmap"
	"github.com/agentstation/fieldmap/pkg/dataset"
)

// MappingFlags holds the flags shared by commands that open a dataset and
// map records onto it. Zero values defer to the application config.
type MappingFlags struct {
	KeyColumn      string
	Separator      string
	Sheet          string
	Table          string
	NoTokenOverlap bool
	TokenMinLength int
	ExpandLists    bool
}

// AddDatasetFlags adds the flags that select a sheet or table within a dataset.
func AddDatasetFlags(cmd *cobra.Command) *MappingFlags {
	flags := &MappingFlags{}
	addDatasetFlags(cmd, flags)
	return flags
}

func addDatasetFlags(cmd *cobra.Command, flags *MappingFlags) {
	cmd.Flags().StringVar(&flags.Sheet, "sheet", "",
		"Worksheet to use for .xlsx datasets (default first sheet)")
	cmd.Flags().StringVar(&flags.Table, "table", "",
		"Table to use for sqlite:// datasets (default dataset)")
}

// AddMappingFlags adds dataset and mapping flags to a command.
func AddMappingFlags(cmd *cobra.Command) *MappingFlags {
	flags := &MappingFlags{}
	addDatasetFlags(cmd, flags)

	cmd.Flags().StringVarP(&flags.KeyColumn, "key-column", "k", "",
		"Column that identifies rows (default PDF_Name)")
	cmd.Flags().StringVar(&flags.Separator, "separator", "",
		"Path separator for flattened keys (default _)")
	cmd.Flags().BoolVar(&flags.NoTokenOverlap, "no-token-overlap", false,
		"Disable the token overlap strategy")
	cmd.Flags().IntVar(&flags.TokenMinLength, "token-min-length", 0,
		"Tokens must be longer than this to count for token overlap (default 3)")
	cmd.Flags().BoolVar(&flags.ExpandLists, "expand-lists", false,
		"Flatten list elements into indexed keys instead of JSON text")

	return flags
}

// ParseDataset extracts dataset flags from a command.
// The command must have had AddDatasetFlags or AddMappingFlags called on it.
func ParseDataset(cmd *cobra.Command) *MappingFlags {
	return &MappingFlags{
		Sheet: mustGetString(cmd, "sheet"),
		Table: mustGetString(cmd, "table"),
	}
}

// ParseMapping extracts mapping flags from a command.
// The command must have had AddMappingFlags called on it, otherwise this will panic.
func ParseMapping(cmd *cobra.Command) *MappingFlags {
	flags := ParseDataset(cmd)
	flags.KeyColumn = mustGetString(cmd, "key-column")
	flags.Separator = mustGetString(cmd, "separator")
	flags.NoTokenOverlap = mustGetBool(cmd, "no-token-overlap")
	flags.TokenMinLength = mustGetInt(cmd, "token-min-length")
	flags.ExpandLists = mustGetBool(cmd, "expand-lists")
	return flags
}

// DatasetOptions returns the codec options selected by the flags.
func (f *MappingFlags) DatasetOptions() []dataset.Option {
	var opts []dataset.Option
	if f.Sheet != "" {
		opts = append(opts, dataset.WithSheet(f.Sheet))
	}
	if f.Table != "" {
		opts = append(opts, dataset.WithTable(f.Table))
	}
	return opts
}

// MapperOptions returns the mapper options selected by the flags.
func (f *MappingFlags) MapperOptions() []fieldmap.Option {
	var opts []fieldmap.Option
	if f.KeyColumn != "" {
		opts = append(opts, fieldmap.WithKeyColumn(f.KeyColumn))
	}
	if f.Separator != "" {
		opts = append(opts, fieldmap.WithSeparator(f.Separator))
	}
	if f.ExpandLists {
		opts = append(opts, fieldmap.WithListExpansion())
	}
	switch {
	case f.NoTokenOverlap:
		opts = append(opts, fieldmap.WithoutTokenOverlap())
	case f.TokenMinLength > 0:
		opts = append(opts, fieldmap.WithTokenOverlap(f.TokenMinLength))
	}
	return opts
}

func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

func mustGetInt(cmd *cobra.Command, name string) int {
	val, err := cmd.Flags().GetInt(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

func mustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}
