// Package message turns balancing errors into user-facing text.
package message

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dhamidi/stoich/chem"
)

const (
	English = "en"
	Thai    = "th"
)

type catalog struct {
	missingSeparator string
	extraSeparator   string
	emptySide        string
	unparseable      string
	noSolution       string
	ambiguous        string
	nonPositive      string
	unbalanced       string
	balanced         string
	failed           string
}

var catalogs = map[string]catalog{
	English: {
		missingSeparator: "Invalid equation format. Use -> or → to separate reactants from products.",
		extraSeparator:   "Invalid equation format. Use exactly one arrow (->) between reactants and products.",
		emptySide:        "Invalid equation format. The %s side has no compounds.",
		unparseable:      "Cannot read compound %q. Write compounds as element symbols with counts, such as Fe2O3.",
		noSolution:       "This equation cannot be balanced. Check that both sides contain the same elements.",
		ambiguous:        "This equation has %d independent ways to balance it. Split it into separate reactions.",
		nonPositive:      "This equation cannot be balanced with %s taking part. Check the compounds on each side.",
		unbalanced:       "Not balanced: %s differ between the two sides.",
		balanced:         "Balanced: %s",
		failed:           "Unable to balance the equation. Please check your input: %s",
	},
	Thai: {
		missingSeparator: "รูปแบบสมการไม่ถูกต้อง กรุณาใช้ -> หรือ → เพื่อแยกสารตั้งต้นและผลิตภัณฑ์",
		extraSeparator:   "รูปแบบสมการไม่ถูกต้อง กรุณาใช้ลูกศร (->) เพียงหนึ่งตัวเพื่อแยกสารตั้งต้นและผลิตภัณฑ์",
		emptySide:        "รูปแบบสมการไม่ถูกต้อง ฝั่ง%sไม่มีสาร",
		unparseable:      "ไม่สามารถอ่านสาร %q ได้ โปรดเขียนเป็นสัญลักษณ์ธาตุตามด้วยจำนวน เช่น Fe2O3",
		noSolution:       "ไม่สามารถดุลสมการได้ โปรดตรวจสอบว่าทั้งสองฝั่งมีธาตุเดียวกัน",
		ambiguous:        "สมการนี้ดุลได้ %d แบบที่ไม่ขึ้นต่อกัน โปรดแยกเป็นหลายปฏิกิริยา",
		nonPositive:      "ไม่สามารถดุลสมการโดยให้ %s มีส่วนร่วมได้ โปรดตรวจสอบสารในแต่ละฝั่ง",
		unbalanced:       "สมการยังไม่ดุล: จำนวน %s ไม่เท่ากันทั้งสองฝั่ง",
		balanced:         "สมการที่ดุลแล้ว: %s",
		failed:           "ไม่สามารถดุลสมการได้ โปรดตรวจสอบข้อมูลที่ป้อน: %s",
	},
}

var sideNames = map[string]map[string]string{
	English: {"reactants": "reactant", "products": "product"},
	Thai:    {"reactants": "สารตั้งต้น", "products": "ผลิตภัณฑ์"},
}

// Supported reports whether locale has a catalog.
func Supported(locale string) bool {
	_, ok := catalogs[locale]
	return ok
}

func lookup(locale string) (catalog, string) {
	if c, ok := catalogs[locale]; ok {
		return c, locale
	}
	return catalogs[English], English
}

// For returns the text shown to a user for err in the given locale.
// Unknown locales fall back to English.
func For(err error, locale string) string {
	c, locale := lookup(locale)

	var chemErr *chem.Error
	if !errors.As(err, &chemErr) {
		return fmt.Sprintf(c.failed, err)
	}

	switch chemErr.Kind {
	case chem.KindMalformedEquation:
		switch chemErr.Reason {
		case chem.ReasonExtraSeparator:
			return c.extraSeparator
		case chem.ReasonEmptySide:
			return fmt.Sprintf(c.emptySide, sideNames[locale][chemErr.Fragment])
		default:
			return c.missingSeparator
		}
	case chem.KindUnparseableCompound:
		return fmt.Sprintf(c.unparseable, chemErr.Fragment)
	case chem.KindNoNonTrivialSolution:
		return c.noSolution
	case chem.KindAmbiguousBalance:
		return fmt.Sprintf(c.ambiguous, chemErr.Free)
	case chem.KindNonPositiveCoefficient:
		return fmt.Sprintf(c.nonPositive, chemErr.Fragment)
	default:
		return fmt.Sprintf(c.failed, err)
	}
}

// Unbalanced describes the elements that differ in a checked equation.
func Unbalanced(elements []string, locale string) string {
	c, _ := lookup(locale)
	return fmt.Sprintf(c.unbalanced, strings.Join(elements, ", "))
}

// Balanced presents the balanced form of an equation.
func Balanced(equation, locale string) string {
	c, _ := lookup(locale)
	return fmt.Sprintf(c.balanced, equation)
}
