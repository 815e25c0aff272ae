package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/idara/core/activity"
	"github.com/trezcool/idara/core/form"
)

// AssetSequence names the counter backing asset tags.
const AssetSequence = "assets"

func Assets() activity.Definition {
	return activity.Definition{
		Name:       "assets",
		Label:      "Asset",
		Collection: "assets",
		Fields: []form.Field{
			{Name: "assetID", Label: "Asset ID", Kind: form.Text},
			{Name: "name", Label: "Name", Kind: form.Text, Required: true},
			{Name: "category", Label: "Category", Kind: form.Select, Required: true,
				Options: []string{"computer", "lab-equipment", "furniture", "vehicle", "other"}},
			{Name: "location", Label: "Location", Kind: form.Text, Required: true},
			{Name: "purchaseDate", Label: "Purchase date", Kind: form.Date},
			{Name: "cost", Label: "Cost", Kind: form.Number, Min: fptr(0)},
			{Name: "warrantyPeriod.years", Label: "Warranty (years)", Kind: form.Number, Min: fptr(0), Max: fptr(30), Step: fptr(1)},
			{Name: "warrantyPeriod.months", Label: "Warranty (months)", Kind: form.Number, Min: fptr(0), Max: fptr(11), Step: fptr(1)},
			{Name: "working", Label: "In working condition", Kind: form.Checkbox},
			publishedField(),
		},
		SearchFields: []string{"assetID", "name", "category", "location"},
	}
}

type sequencer interface {
	NextSequence(ctx context.Context, name string) (int64, error)
}

// NextAssetID allocates the next asset tag, e.g. "AST-2026-0042". Earlier
// portal versions derived the next id by parsing the most recently created
// document's tag, which races under concurrent creation; the tag now comes
// from an atomic counter instead.
func NextAssetID(ctx context.Context, seq sequencer) (string, error) {
	n, err := seq.NextSequence(ctx, AssetSequence)
	if err != nil {
		return "", errors.Wrap(err, "allocating asset id")
	}
	return fmt.Sprintf("AST-%d-%04d", time.Now().UTC().Year(), n), nil
}
