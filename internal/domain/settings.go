package domain

import "time"

type SocialMedia struct {
	Facebook  string `json:"facebook,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Youtube   string `json:"youtube,omitempty"`
}

// Settings is the public shop configuration served by /settings/public.
type Settings struct {
	WhatsappNumber string            `json:"whatsappNumber"`
	ShopName       string            `json:"shopName,omitempty"`
	ShopAddress    string            `json:"shopAddress"`
	ShopPhone      string            `json:"shopPhone"`
	ShopEmail      string            `json:"shopEmail"`
	SocialMedia    SocialMedia       `json:"socialMedia"`
	BusinessHours  map[string]string `json:"businessHours,omitempty"`
}

// DefaultSettings is what the storefront shows when the settings endpoint is
// unreachable. It carries no WhatsApp number, so checkout stays disabled.
func DefaultSettings() Settings {
	return Settings{
		ShopName: "WoodCraft",
		BusinessHours: map[string]string{
			"Mon - Fri": "9:00 AM - 6:00 PM",
			"Saturday":  "9:00 AM - 4:00 PM",
			"Sunday":    "Closed",
		},
	}
}

type Category struct {
	ID          string     `json:"_id"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Description string     `json:"description,omitempty"`
	Image       *Image     `json:"image,omitempty"`
	IsActive    *bool      `json:"isActive,omitempty"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
}

type Banner struct {
	ID       string `json:"_id"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
	Image    *Image `json:"image,omitempty"`
	Link     string `json:"link,omitempty"`
	Order    int    `json:"order,omitempty"`
	IsActive bool   `json:"isActive"`
}

type ContactMessage struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone,omitempty"`
	Subject string `json:"subject,omitempty"`
	Message string `json:"message" validate:"required"`
}
