package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/cppla/homelab/models"
	"github.com/cppla/homelab/utils"
)

// seedFile is the YAML layout accepted by the seed command:
//
//	items:
//	  - name: Parks
//	    price_per_sig: "0.50"
//	    sigs_per_book: 5
//	    active: true
type seedFile struct {
	Items []seedItem `yaml:"items"`
}

type seedItem struct {
	Name        string `yaml:"name"`
	PricePerSig string `yaml:"price_per_sig"`
	SigsPerBook int    `yaml:"sigs_per_book"`
	Active      *bool  `yaml:"active"`
}

// toItem validates a seed row. Active defaults to true.
func (s seedItem) toItem() (models.Item, error) {
	name := utils.PlainText(s.Name)
	if name == "" {
		return models.Item{}, fmt.Errorf("item without a name")
	}
	price, err := decimal.NewFromString(s.PricePerSig)
	if err != nil {
		return models.Item{}, fmt.Errorf("item %q: invalid price %q", name, s.PricePerSig)
	}
	if !price.IsPositive() {
		return models.Item{}, fmt.Errorf("item %q: price must be positive", name)
	}
	if s.SigsPerBook < 0 {
		return models.Item{}, fmt.Errorf("item %q: sigs_per_book must not be negative", name)
	}
	active := true
	if s.Active != nil {
		active = *s.Active
	}
	return models.Item{Name: name, PricePerSig: price, SigsPerBook: s.SigsPerBook, Active: active}, nil
}

func loadSeedFile(path string) ([]models.Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}

	items := make([]models.Item, 0, len(f.Items))
	for _, row := range f.Items {
		item, err := row.toItem()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

var seedCmd = &cobra.Command{
	Use:   "seed <file.yaml>",
	Short: "Create or update petition types from a YAML file",
	Long: `Upserts petition types by name. Existing types get the file's rate,
signatures per book and active flag; entries are never touched.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		items, err := loadSeedFile(args[0])
		if err != nil {
			return err
		}
		for i := range items {
			if err := petitions.UpsertItem(cmd.Context(), &items[i]); err != nil {
				return err
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s Seeded %d petition types\n", color.GreenString("✓"), len(items))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
