package checkout

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/Anand-247/FE-VF/internal/domain"
)

type Kind string

const (
	KindSingleItem Kind = "single_item"
	KindCart       Kind = "cart"
)

const DefaultCurrency = "₹"

var (
	ErrUnknownKind     = errors.New("unknown checkout kind")
	ErrMissingProduct  = errors.New("single item checkout needs a product")
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
	ErrTotalMismatch   = errors.New("item subtotals do not add up to the total")
)

// Payload is the input of one message. Product, Variant and Quantity are used
// by KindSingleItem; Items and Total by KindCart. User is optional for both.
type Payload struct {
	User     *domain.UserProfile
	Product  *domain.Product
	Variant  *domain.Variant
	Quantity int
	Items    []domain.CartLineItem
	Total    float64
}

// Composer builds the order text sent to the shop over WhatsApp. It holds no
// state besides its formatting settings and is safe for concurrent use.
type Composer struct {
	storeURL string
	currency string
}

func NewComposer(storeURL, currency string) *Composer {
	if currency == "" {
		currency = DefaultCurrency
	}
	return &Composer{
		storeURL: strings.TrimRight(storeURL, "/"),
		currency: currency,
	}
}

// Compose returns the message percent-encoded for use as the text query
// value of a wa.me link.
func (c *Composer) Compose(kind Kind, p Payload) (string, error) {
	text, err := c.Text(kind, p)
	if err != nil {
		return "", err
	}
	return EncodeURIComponent(text), nil
}

// Text returns the plain message.
func (c *Composer) Text(kind Kind, p Payload) (string, error) {
	var b strings.Builder
	b.WriteString("Hello! I'm interested in placing an order.\n\n")

	if p.User != nil {
		b.WriteString("*Customer Details:*\n")
		fmt.Fprintf(&b, "Name: %s\n", p.User.Name)
		fmt.Fprintf(&b, "Phone: %s\n", p.User.Phone)
		fmt.Fprintf(&b, "Address: %s\n\n", p.User.Address)
	}

	switch kind {
	case KindSingleItem:
		if err := c.writeProduct(&b, p); err != nil {
			return "", err
		}
	case KindCart:
		if err := c.writeCart(&b, p); err != nil {
			return "", err
		}
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	b.WriteString("Please confirm the order and let me know the delivery details.")
	return b.String(), nil
}

func (c *Composer) writeProduct(b *strings.Builder, p Payload) error {
	if p.Product == nil {
		return ErrMissingProduct
	}
	if p.Quantity < 1 {
		return ErrInvalidQuantity
	}

	price := p.Variant.EffectivePrice(p.Product.Price)

	b.WriteString("*Product:*\n")
	b.WriteString(p.Product.Name)
	b.WriteString("\n")
	if label := p.Variant.Label(); label != "" {
		fmt.Fprintf(b, "Variant: %s\n", label)
	}
	fmt.Fprintf(b, "Price: %s\n", c.amount(price))
	fmt.Fprintf(b, "Quantity: %d\n", p.Quantity)
	fmt.Fprintf(b, "Total: %s\n", c.amount(price*float64(p.Quantity)))
	if link := c.ProductLink(p.Product.Slug); link != "" {
		fmt.Fprintf(b, "Link: %s\n", link)
	}
	b.WriteString("\n")
	return nil
}

func (c *Composer) writeCart(b *strings.Builder, p Payload) error {
	if len(p.Items) > 0 {
		sum := domain.CartTotal(p.Items)
		if math.Abs(sum-p.Total) >= 0.005 {
			return fmt.Errorf("%w: items %s, total %s", ErrTotalMismatch, c.amount(sum), c.amount(p.Total))
		}

		b.WriteString("*Order Details:*\n")
		for i, item := range p.Items {
			fmt.Fprintf(b, "%d. %s\n", i+1, item.Name)
			if label := item.SelectedVariant.Label(); label != "" {
				fmt.Fprintf(b, "   Variant: %s\n", label)
			}
			fmt.Fprintf(b, "   Price: %s\n", c.amount(item.UnitPrice()))
			fmt.Fprintf(b, "   Quantity: %d\n", item.Quantity)
			fmt.Fprintf(b, "   Subtotal: %s\n", c.amount(item.Subtotal()))
			if link := c.ProductLink(item.Slug); link != "" {
				fmt.Fprintf(b, "   Link: %s\n", link)
			}
			b.WriteString("\n")
		}
	}

	fmt.Fprintf(b, "*Total Amount: %s*\n\n", c.amount(p.Total))
	return nil
}

// ProductLink is the detail page URL of a product, empty when either the
// store URL or the slug is unknown.
func (c *Composer) ProductLink(slug string) string {
	if c.storeURL == "" || slug == "" {
		return ""
	}
	return c.storeURL + "/product/" + url.PathEscape(slug)
}

func (c *Composer) amount(v float64) string {
	return c.currency + FormatAmount(v)
}

// FormatAmount prints v rounded to two decimals without trailing zeros, so
// 600 stays "600" and 99.50 becomes "99.5".
func FormatAmount(v float64) string {
	return strconv.FormatFloat(domain.RoundAmount(v), 'f', -1, 64)
}


var uriComponentFixes = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// EncodeURIComponent escapes s the way browsers do for a single URI
// component: unreserved characters and !'()* stay literal, spaces become %20.
func EncodeURIComponent(s string) string {
	return uriComponentFixes.Replace(url.QueryEscape(s))
}
