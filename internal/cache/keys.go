package cache

import (
	"strconv"
	"strings"

	"github.com/Afzalsd/Ecom-SAAS/internal/domain/product"
)

func ProductKey(id string) string {
	return "products:item:" + id
}

// ProductListKey derives a stable cache key from the list filter. The
// generation prefix lets writes invalidate every combination at once.
// Filter values go into the key verbatim: the stores compare them
// case-sensitively, so folding here would alias distinct queries.
func ProductListKey(version int64, f product.ListFilter) string {
	var b strings.Builder

	b.WriteString("products:list:g")
	b.WriteString(strconv.FormatInt(version, 10))
	b.WriteString(":category=")
	b.WriteString(strOrEmpty(f.Category))
	b.WriteString(":brand=")
	b.WriteString(strOrEmpty(f.Brand))
	b.WriteString(":gender=")
	b.WriteString(strOrEmpty(f.Gender))
	b.WriteString(":collection=")
	b.WriteString(strOrEmpty(f.Collection))
	b.WriteString(":published=")
	if f.Published != nil {
		b.WriteString(strconv.FormatBool(*f.Published))
	}
	b.WriteString(":limit=")
	b.WriteString(strconv.Itoa(f.Limit))
	b.WriteString(":offset=")
	b.WriteString(strconv.Itoa(f.Offset))

	return b.String()
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
