package checkout

import (
	"github.com/louisbranch/storefront/internal/platform/assets/imagecdn"
	"github.com/louisbranch/storefront/internal/platform/i18n"
	"github.com/louisbranch/storefront/internal/platform/money"
	checkoutflow "github.com/louisbranch/storefront/internal/services/storefront/checkout"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/producttext"
	"github.com/louisbranch/storefront/internal/services/storefront/templates"
)

const summaryImageWidth = 120

// summaryView formats a snapshot. The total is the snapshot's exact sum;
// only its display changes with the locale.
func summaryView(loc i18n.Locale, images imagecdn.Resolver, snapshot checkoutflow.Snapshot) templates.SummaryView {
	if images == nil {
		images = imagecdn.Passthrough{}
	}
	lines := make([]templates.SummaryLineView, 0, len(snapshot.Lines))
	for _, line := range snapshot.Lines {
		lines = append(lines, templates.SummaryLineView{
			Name:      producttext.NameFor(loc, line.ProductID, line.Name),
			ImageURL:  images.ImageURL(line.ImageURL, summaryImageWidth),
			Quantity:  line.Quantity,
			LineTotal: money.Format(loc, line.Total()),
		})
	}
	return templates.SummaryView{
		Lines:     lines,
		ItemCount: snapshot.ItemCount(),
		Total:     money.Format(loc, snapshot.Total),
	}
}
