package ingest

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Charldewet/pharmacy-api-webservice-sub001/pkg/enums"
)

var (
	accountRe = regexp.MustCompile(`^\s*(\d{4,8})\b`)
	emailRe   = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	// amountRe is deliberately loose: anything that could plausibly be a money
	// column is classified as an amount and then strict-parsed, so corrupted
	// rows reject with malformed_amount instead of silently mis-binding.
	amountRe = regexp.MustCompile(`^[R$]?\(?-?\d[\d.,]*\)?-?$`)
	digitsRe = regexp.MustCompile(`^\d+$`)
	// phoneGroupRe matches numbers written in separated groups ("082 123 4567",
	// "082-123-4567"). The leading trunk 0 and the whole-token boundaries keep
	// it off runs of integer money columns, which never carry a leading zero,
	// so the amount rule still claims every numeric token it is entitled to.
	phoneGroupRe = regexp.MustCompile(`(?:^|\s)(0\d{1,3}[ -]\d{3}[ -]\d{4})(?:\s|$)`)
)

// ParseBlock applies the ordered extraction rules to one segmented block and
// returns a candidate record or a typed rejection. It is a pure function of
// its input.
//
// Rule order (first match wins per field): account number, customer name,
// seven ageing buckets left to right, email, phone.
func ParseBlock(block string) (*Candidate, error) {
	accountMatch := accountRe.FindStringSubmatch(block)
	if accountMatch == nil {
		return nil, &RowError{Reason: enums.RejectionNoAccountNumber}
	}
	account := accountMatch[1]
	rest := block[len(accountMatch[0]):]

	var email *string
	if m := emailRe.FindString(rest); m != "" {
		email = &m
		rest = strings.Replace(rest, m, " ", 1)
	}

	var groupedPhone *string
	if m := phoneGroupRe.FindStringSubmatch(rest); m != nil {
		digits := stripPhone(m[1])
		if len(digits) >= 9 && len(digits) <= 11 && digits != account {
			groupedPhone = &digits
			rest = strings.Replace(rest, m[1], " ", 1)
		}
	}

	tokens := strings.Fields(rest)
	kind := classifyTokens(tokens)

	firstAmount := -1
	for i, k := range kind {
		if k == tokenAmount {
			firstAmount = i
			break
		}
	}
	if firstAmount == -1 {
		return nil, &RowError{Reason: enums.RejectionAmbiguousAgeingColumns}
	}

	var buckets [BucketCount]decimal.Decimal
	filled := 0
	for i := firstAmount; i < len(tokens) && filled < BucketCount; i++ {
		if kind[i] != tokenAmount {
			continue
		}
		amount, err := parseAmount(tokens[i])
		if err != nil {
			return nil, &RowError{Reason: enums.RejectionMalformedAmount, Token: tokens[i]}
		}
		buckets[filled] = amount
		filled++
	}
	// missing trailing buckets stay zero; extra amounts right of the seventh
	// column are non-monetary noise and ignored

	phone := findPhone(tokens, kind, account)
	if phone == nil {
		phone = groupedPhone
	}

	var nameParts []string
	for i := 0; i < firstAmount; i++ {
		if kind[i] == tokenPhone {
			continue
		}
		nameParts = append(nameParts, tokens[i])
	}
	name := strings.Join(nameParts, " ")

	return &Candidate{
		AccountNumber: account,
		CustomerName:  name,
		Buckets:       buckets,
		Email:         email,
		Phone:         phone,
	}, nil
}

type tokenKind int

const (
	tokenNoise tokenKind = iota
	tokenAmount
	tokenPhone
)

// classifyTokens tags each token as an ageing amount, a phone fragment, or
// noise. A bare digit run of phone length is never an amount: ageing columns
// in these reports always carry a decimal point, separator, sign, or fewer
// than nine digits.
func classifyTokens(tokens []string) []tokenKind {
	kinds := make([]tokenKind, len(tokens))
	for i, tok := range tokens {
		switch {
		case digitsRe.MatchString(tok) && len(tok) >= 9 && len(tok) <= 11:
			kinds[i] = tokenPhone
		case digitsRe.MatchString(tok) && len(tok) > 11:
			kinds[i] = tokenNoise
		case amountRe.MatchString(tok):
			kinds[i] = tokenAmount
		case phoneShape(tok):
			kinds[i] = tokenPhone
		default:
			kinds[i] = tokenNoise
		}
	}
	return kinds
}

func phoneShape(tok string) bool {
	stripped := strings.ReplaceAll(tok, "-", "")
	if !digitsRe.MatchString(stripped) {
		return false
	}
	return len(stripped) >= 9 && len(stripped) <= 11
}

// findPhone returns the first 9-11 digit run not already consumed as the
// account number or an ageing amount.
func findPhone(tokens []string, kind []tokenKind, account string) *string {
	for i, k := range kind {
		if k != tokenPhone {
			continue
		}
		digits := stripPhone(tokens[i])
		if digits == account {
			continue
		}
		return &digits
	}
	return nil
}

func stripPhone(raw string) string {
	s := strings.ReplaceAll(raw, "-", "")
	return strings.ReplaceAll(s, " ", "")
}

// parseAmount normalizes one money token: optional leading currency symbol,
// thousands separators, and a trailing sign or wrapping parentheses marking
// negatives.
func parseAmount(token string) (decimal.Decimal, error) {
	s := strings.TrimSpace(token)
	negative := false

	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")
	}
	if strings.HasSuffix(s, "-") {
		negative = true
		s = strings.TrimSuffix(s, "-")
	}
	s = strings.TrimPrefix(s, "R")
	s = strings.TrimPrefix(s, "$")
	if strings.HasPrefix(s, "-") {
		negative = true
		s = strings.TrimPrefix(s, "-")
	}
	s = strings.ReplaceAll(s, ",", "")

	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if negative {
		amount = amount.Neg()
	}
	return amount, nil
}
