package comics

import "time"

// Comic identifies one published issue as returned by a metadata lookup.
// Instances are constructed per lookup and never mutated afterwards.
type Comic struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	IssueNumber string `json:"issueNumber"` // free-form, may be non-numeric ("1A")
	Volume      string `json:"volume"`
	Publisher   string `json:"publisher"`
	PublishDate string `json:"publishDate"` // free text, not a parsed date

	Writers      []string `json:"writers,omitempty"`
	Artists      []string `json:"artists,omitempty"`
	Colorists    []string `json:"colorists,omitempty"`
	Letterers    []string `json:"letterers,omitempty"`
	CoverArtists []string `json:"coverArtists,omitempty"`
	Editors      []string `json:"editors,omitempty"`

	Description      string   `json:"description"`
	PageCount        int      `json:"pageCount"`
	FirstAppearances []string `json:"firstAppearances,omitempty"`
	KeyEvents        []string `json:"keyEvents,omitempty"`
	Variants         []string `json:"variants,omitempty"`
	CoverImage       string   `json:"coverImage,omitempty"`
}

// Role is a creator role attached to an issue credit. Matching against
// upstream role names is exact and case-sensitive.
type Role string

const (
	RoleWriter   Role = "Writer"
	RoleArtist   Role = "Artist"
	RoleColorist Role = "Colorist"
	RoleLetterer Role = "Letterer"
	RoleCover    Role = "Cover"
	RoleEditor   Role = "Editor"
)

// Credit is a (creator, role) pairing attached to an issue.
type Credit struct {
	Creator string
	Role    Role
}

// Credits holds the per-role creator lists derived from a flat credit list.
type Credits struct {
	Writers      []string
	Artists      []string
	Colorists    []string
	Letterers    []string
	CoverArtists []string
	Editors      []string
}

// GroupCredits partitions a flat ordered credit list into the six role
// lists. A creator appearing under multiple roles lands in every matching
// list; credits with unrecognized roles are dropped.
func GroupCredits(credits []Credit) Credits {
	var out Credits
	for _, c := range credits {
		switch c.Role {
		case RoleWriter:
			out.Writers = append(out.Writers, c.Creator)
		case RoleArtist:
			out.Artists = append(out.Artists, c.Creator)
		case RoleColorist:
			out.Colorists = append(out.Colorists, c.Creator)
		case RoleLetterer:
			out.Letterers = append(out.Letterers, c.Creator)
		case RoleCover:
			out.CoverArtists = append(out.CoverArtists, c.Creator)
		case RoleEditor:
			out.Editors = append(out.Editors, c.Creator)
		}
	}
	return out
}

// CollectionItem is a Comic the user owns, with grading and purchase info.
// Assembled by callers from a scan result; the lookup core never mutates it.
type CollectionItem struct {
	Comic
	ConditionGrade string    `json:"conditionGrade"`
	PurchasePrice  float64   `json:"purchasePrice"`
	CurrentValue   float64   `json:"currentValue"`
	AddedDate      time.Time `json:"addedDate"`
	Location       string    `json:"location,omitempty"`
	Notes          string    `json:"notes,omitempty"`
}

// DealerInventoryItem is a CollectionItem tracked for resale.
type DealerInventoryItem struct {
	CollectionItem
	SKU                   string     `json:"sku,omitempty"`
	Cost                  float64    `json:"cost"`
	ListingPrice          float64    `json:"listingPrice"`
	Sold                  bool       `json:"sold"`
	SoldDate              *time.Time `json:"soldDate,omitempty"`
	SoldPrice             float64    `json:"soldPrice,omitempty"`
	ConsignmentPercentage float64    `json:"consignmentPercentage,omitempty"`
}

// WantListItem is a comic the user is hunting for.
type WantListItem struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	AddedDate   time.Time `json:"addedDate"`
	Found       bool      `json:"found"`
	TargetPrice float64   `json:"targetPrice,omitempty"`
	Notes       string    `json:"notes,omitempty"`
}

// PriceAlert fires when a comic's market price drops to the target.
type PriceAlert struct {
	ID           string    `json:"id"`
	ComicID      string    `json:"comicId,omitempty"`
	Title        string    `json:"title"`
	IssueNumber  string    `json:"issueNumber"`
	TargetPrice  float64   `json:"targetPrice"`
	CurrentPrice float64   `json:"currentPrice"`
	Active       bool      `json:"active"`
	CreatedDate  time.Time `json:"createdDate"`
}

// Settings are the per-user app settings.
type Settings struct {
	UserMode      string `json:"userMode"` // "collector" or "dealer"
	Notifications bool   `json:"notifications"`
	AutoSave      bool   `json:"autoSave"`
}

// DefaultSettings returns the settings used before the user picks a mode.
func DefaultSettings() Settings {
	return Settings{UserMode: "collector", Notifications: true, AutoSave: false}
}
