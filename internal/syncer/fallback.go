package syncer

import (
	"time"

	"github.com/fixdesk/fixdesk/internal/catalog"
)

// Built-in placeholder catalogs shown when the remote service is unreachable
// or returns garbage. Read catalogs never surface a hard error to the user;
// tickets are the exception and fall back to empty instead.

func fallbackDevices() []catalog.Device {
	return []catalog.Device{
		{
			ID:          1,
			Name:        "iPhone 15 Pro",
			Description: "Apple's flagship with a titanium body",
			Tags:        "Apple, iPhone, Pro",
			CreatedAt:   catalog.Timestamp{Time: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)},
		},
		{
			ID:          2,
			Name:        "Samsung Galaxy S24",
			Description: "Powerful Android smartphone with AI features",
			Tags:        "Samsung, Android, Galaxy",
			CreatedAt:   catalog.Timestamp{Time: time.Date(2024, 1, 10, 14, 30, 0, 0, time.UTC)},
		},
	}
}

func fallbackInstructions() []catalog.Guide {
	return []catalog.Guide{
		{
			ID:          1,
			Title:       "iPhone 15 Pro initial setup",
			Description: "Step-by-step first-time setup walkthrough",
			Type:        "PDF",
			CreatedAt:   catalog.Timestamp{Time: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)},
			Models:      []catalog.Ref{{ID: 1}},
		},
		{
			ID:          2,
			Title:       "Installing apps on Galaxy S24",
			Description: "How to install and configure applications",
			Type:        "VIDEO",
			CreatedAt:   catalog.Timestamp{Time: time.Date(2024, 1, 10, 14, 30, 0, 0, time.UTC)},
			Models:      []catalog.Ref{{ID: 2}},
		},
	}
}

func fallbackRecipes() []catalog.Guide {
	return []catalog.Guide{
		{
			ID:          1,
			Title:       "iPhone restore procedure",
			Description: "Restoring an iPhone from a backup",
			Type:        "PDF",
			CreatedAt:   catalog.Timestamp{Time: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)},
			Models:      []catalog.Ref{{ID: 1}},
		},
	}
}
