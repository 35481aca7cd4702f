package usecase

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/paintassist/backend/internal/domain"
)

// HelpText is the reply when no intent was recognized
const HelpText = "I'm not sure how to help with that. Try asking 'Tell me about <product name>' " +
	"or 'How much is <product code> in <size>?'."

// RenderReply turns a resolved response into the chat reply text
func RenderReply(resp *domain.Response) string {
	if resp == nil {
		return HelpText
	}
	if resp.Prompt != "" {
		return resp.Prompt
	}

	switch {
	case resp.About != nil:
		return renderAbout(resp.Query, resp.About)
	case resp.Price != nil:
		return renderPrice(resp.Query, resp.Price)
	default:
		return HelpText
	}
}

func renderAbout(q domain.ResolvedQuery, about *domain.AboutResult) string {
	if !about.Found {
		reply := fmt.Sprintf("I couldn't find a product named %q.", q.TargetName)
		return reply + didYouMean(about.Suggestions)
	}
	return about.ResolvedName + "\n" + about.SummaryText
}

func renderPrice(q domain.ResolvedQuery, p *domain.PriceResult) string {
	if p.ProductCode == "" {
		target := q.TargetCode
		if target == "" {
			target = q.TargetName
		}
		reply := fmt.Sprintf("I couldn't find a product with the code %q.", target)
		return reply + didYouMean(p.CodeSuggestions)
	}

	product := fmt.Sprintf("%s (code %s)", p.ProductName, p.ProductCode)
	sizes := strings.Join(p.AvailableSizes, ", ")

	if p.Found {
		reply := fmt.Sprintf("%s costs %s for %s.", product, FormatAmount(*p.Price, p.Currency), p.SizeLabel)
		if p.Substituted {
			reply = fmt.Sprintf("The size %q isn't listed, so here is the closest one. ", p.RequestedSize) + reply
		}
		return reply
	}

	if len(p.AvailableSizes) == 0 {
		return fmt.Sprintf("I couldn't find size details for %s.", product)
	}

	if p.RequestedSize == "" {
		return fmt.Sprintf("Which size of %s? Available sizes are: %s.", product, sizes)
	}

	reply := fmt.Sprintf("I couldn't find the size %q for %s.", p.RequestedSize, product)
	if p.ClosestSize != "" {
		reply += fmt.Sprintf(" Did you mean %s?", p.ClosestSize)
	}
	return reply + fmt.Sprintf(" Available sizes are: %s.", sizes)
}

func didYouMean(suggestions []string) string {
	if len(suggestions) == 0 {
		return ""
	}
	return " Did you mean: " + strings.Join(suggestions, ", ") + "?"
}

// FormatAmount renders an amount with two decimals and thousands separators,
// followed by the currency when one is given: "1,234.50 AED".
func FormatAmount(amount decimal.Decimal, currency string) string {
	text := groupThousands(amount.StringFixed(2))
	if currency = strings.TrimSpace(currency); currency != "" {
		text += " " + currency
	}
	return text
}

func groupThousands(fixed string) string {
	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign, fixed = "-", fixed[1:]
	}

	whole, frac, _ := strings.Cut(fixed, ".")
	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	if frac != "" {
		return sign + b.String() + "." + frac
	}
	return sign + b.String()
}
