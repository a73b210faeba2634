package uniqueid

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Alphabet without I, O, 0, 1 so the codes survive being read over the phone.
const readableAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

var (
	mu             sync.Mutex
	lastCartMilli  int64
	cartSequence   int64
	lastOrderMilli int64
	orderSequence  int64
)

func encodeReadable(value int64) string {
	base := int64(len(readableAlphabet))
	if value <= 0 {
		return string(readableAlphabet[0])
	}
	var sb []byte
	for value > 0 {
		sb = append([]byte{readableAlphabet[value%base]}, sb...)
		value /= base
	}
	return string(sb)
}

func randomReadable(length int) string {
	out := make([]byte, length)
	for i := range out {
		out[i] = readableAlphabet[rand.IntN(len(readableAlphabet))]
	}
	return string(out)
}

func dateCode(t time.Time) string {
	return t.UTC().Format("060102")
}

func last(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

// CartID builds a readable cart identifier, e.g.
// C-250901-P12-Q3P5-XK2MN4AQR. The per-millisecond sequence keeps IDs
// generated in the same tick unique.
func CartID(productIDSum uint, totalQuantity decimal.Decimal) string {
	mu.Lock()
	now := time.Now().UnixMilli()
	if now == lastCartMilli {
		cartSequence++
	} else {
		cartSequence = 0
		lastCartMilli = now
	}
	seq := cartSequence
	mu.Unlock()

	// decimal point becomes a readable marker
	qty := strings.ReplaceAll(totalQuantity.String(), ".", "P")

	suffix := last(encodeReadable(now), 6) + encodeReadable(seq) + randomReadable(2)
	id := fmt.Sprintf("C-%s-P%d-Q%s-%s", dateCode(time.UnixMilli(now)), productIDSum, qty, suffix)
	return strings.ToUpper(id)
}

// OrderID embeds the creation date, the requested delivery date and the tail
// of the source reference (cart unique ID, or customer mobile for
// admin-direct orders).
func OrderID(sourceRef string, maxDateRequired time.Time) string {
	mu.Lock()
	now := time.Now().UnixMilli()
	if now == lastOrderMilli {
		orderSequence++
	} else {
		orderSequence = 0
		lastOrderMilli = now
	}
	seq := orderSequence
	mu.Unlock()

	suffix := last(encodeReadable(now), 6) + encodeReadable(seq) + randomReadable(2)
	id := fmt.Sprintf("O-%s-%s-%s-%s", dateCode(time.UnixMilli(now)), dateCode(maxDateRequired), last(sourceRef, 4), suffix)
	return strings.ToUpper(id)
}

// BatchCode encodes the product and the production window plus a timestamp
// for uniqueness.
func BatchCode(productID uint, startDate, endDate time.Time) string {
	return fmt.Sprintf("%d%s%s%d", productID, startDate.Format("0201"), endDate.Format("0201"), time.Now().UnixMilli())
}

// UserCode: short human-readable staff identifier.
func UserCode() string {
	return strings.ToUpper("U-" + dateCode(time.Now()) + "-" + randomReadable(5))
}
