package vcf

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Breakend is one side of a novel adjacency decoded from bracket
// notation in an ALT allele. The two orientation bits select one of the
// four joint cases: whether the anchored local sequence precedes or
// follows the bracket pair, and whether the joined mate segment extends
// forward ("[") or reverse ("]") of the mate position.
type Breakend struct {
	MateChrom    string
	MatePos      int64
	AnchorBefore bool
	MateReverse  bool
	Insert       string
}

// The four breakend shapes. t is the anchored sequence, p the mate
// locus.
var (
	bndAnchorFwd = regexp.MustCompile(`^([ACGTNacgtn]+)\[([^\[\]]+)\[$`) // t[p[
	bndAnchorRev = regexp.MustCompile(`^([ACGTNacgtn]+)\]([^\[\]]+)\]$`) // t]p]
	bndRevAnchor = regexp.MustCompile(`^\]([^\[\]]+)\]([ACGTNacgtn]+)$`) // ]p]t
	bndFwdAnchor = regexp.MustCompile(`^\[([^\[\]]+)\[([ACGTNacgtn]+)$`) // [p[t
)

// IsBreakendAlt reports whether an ALT allele token uses bracket
// notation. A token for which this is true must parse as a breakend or
// the allele is invalid.
func IsBreakendAlt(token string) bool {
	return strings.ContainsAny(token, "[]")
}

// ParseBreakend decodes a bracket-notation ALT token. The returned
// error is an *InvalidBreakendError carrying no line number; stream
// decoding attaches one.
func ParseBreakend(token string) (*Breakend, error) {
	b := &Breakend{}
	var locus string
	switch {
	case matchBnd(bndAnchorFwd, token, &b.Insert, &locus):
		b.AnchorBefore = true
	case matchBnd(bndAnchorRev, token, &b.Insert, &locus):
		b.AnchorBefore = true
		b.MateReverse = true
	case matchBnd(bndRevAnchor, token, &locus, &b.Insert):
		b.MateReverse = true
	case matchBnd(bndFwdAnchor, token, &locus, &b.Insert):
	default:
		return nil, &InvalidBreakendError{Token: token, Reason: "does not match any bracket pattern"}
	}

	// The mate chromosome may itself contain colons, so the position is
	// everything after the last one.
	cut := strings.LastIndexByte(locus, ':')
	if cut <= 0 || cut == len(locus)-1 {
		return nil, &InvalidBreakendError{Token: token, Reason: fmt.Sprintf("mate locus %q is not chrom:pos", locus)}
	}
	b.MateChrom = locus[:cut]
	pos, err := strconv.ParseInt(locus[cut+1:], 10, 64)
	if err != nil || pos <= 0 {
		return nil, &InvalidBreakendError{Token: token, Reason: fmt.Sprintf("mate position %q is not a positive integer", locus[cut+1:])}
	}
	b.MatePos = pos
	return b, nil
}

func matchBnd(re *regexp.Regexp, token string, first, second *string) bool {
	m := re.FindStringSubmatch(token)
	if m == nil {
		return false
	}
	*first = m[1]
	*second = m[2]
	return true
}

// SameOrientation reports whether two breakends describe the same joint
// case.
func (b *Breakend) SameOrientation(o *Breakend) bool {
	return b.AnchorBefore == o.AnchorBefore && b.MateReverse == o.MateReverse
}

// ReciprocalOf reports whether b's orientation is the valid mate
// orientation for a. Derived from the canonical mate pairings: t[p[
// pairs with ]p]t, while t]p] and [p[t each pair with themselves.
func (b *Breakend) ReciprocalOf(a *Breakend) bool {
	return b.AnchorBefore == a.MateReverse && b.MateReverse == a.AnchorBefore
}

func (b *Breakend) String() string {
	locus := b.MateChrom + ":" + strconv.FormatInt(b.MatePos, 10)
	switch {
	case b.AnchorBefore && !b.MateReverse:
		return b.Insert + "[" + locus + "["
	case b.AnchorBefore && b.MateReverse:
		return b.Insert + "]" + locus + "]"
	case b.MateReverse:
		return "]" + locus + "]" + b.Insert
	default:
		return "[" + locus + "[" + b.Insert
	}
}
