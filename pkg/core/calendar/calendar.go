package calendar

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
)

const (
	// BlockCount is the number of numbered blocks in the academic year
	BlockCount = 13

	// SubblocksPerBlock is the number of subblocks (A, B) per block
	SubblocksPerBlock = 2

	// DefaultFirstHalfSize is the number of subblocks in the first vacation half.
	// Block1A..Block6B (12) against Block7A..Block13B (14).
	DefaultFirstHalfSize = 12

	// DefaultSubblockRule spaces subblocks two weeks apart across the year
	DefaultSubblockRule = "FREQ=WEEKLY;INTERVAL=2;COUNT=26"

	labelPrefix = "Block"
	suffixes    = "AB"
)

// Half is one of the two vacation bidding partitions of the calendar
type Half int

const (
	FirstHalf  Half = 1
	SecondHalf Half = 2
)

func (h Half) String() string {
	switch h {
	case FirstHalf:
		return "H1"
	case SecondHalf:
		return "H2"
	default:
		return fmt.Sprintf("Half(%d)", int(h))
	}
}

// Subblock is a single column of the schedule grid
type Subblock struct {
	// Label is the column name, e.g. "Block7B"
	Label string

	// Block is the 1-based block number the subblock belongs to
	Block int

	// Index is the position of the subblock in calendar order
	Index int
}

// Calendar is the fixed ordered sequence of subblocks for an academic year
type Calendar struct {
	subblocks     []Subblock
	index         map[string]int
	firstHalfSize int
}

// New builds the 26-subblock calendar with the given number of subblocks in the first half
func New(firstHalfSize int) (*Calendar, error) {
	total := BlockCount * SubblocksPerBlock
	if firstHalfSize < 0 || firstHalfSize > total {
		return nil, fmt.Errorf("first half size must be between 0 and %d, got %d", total, firstHalfSize)
	}

	cal := &Calendar{
		subblocks:     make([]Subblock, 0, total),
		index:         make(map[string]int, total),
		firstHalfSize: firstHalfSize,
	}

	for block := 1; block <= BlockCount; block++ {
		for _, suffix := range suffixes {
			label := fmt.Sprintf("%s%d%c", labelPrefix, block, suffix)
			cal.index[label] = len(cal.subblocks)
			cal.subblocks = append(cal.subblocks, Subblock{
				Label: label,
				Block: block,
				Index: len(cal.subblocks),
			})
		}
	}

	return cal, nil
}

// Default returns the calendar with the default 12/14 half split
func Default() *Calendar {
	cal, err := New(DefaultFirstHalfSize)
	if err != nil {
		panic(err)
	}
	return cal
}

// Len returns the number of subblocks
func (c *Calendar) Len() int {
	return len(c.subblocks)
}

// Subblocks returns the subblocks in calendar order
func (c *Calendar) Subblocks() []Subblock {
	return c.subblocks
}

// Labels returns the subblock labels in calendar order
func (c *Calendar) Labels() []string {
	labels := make([]string, len(c.subblocks))
	for i, sb := range c.subblocks {
		labels[i] = sb.Label
	}
	return labels
}

// LastBlock returns the highest block number
func (c *Calendar) LastBlock() int {
	return BlockCount
}

// FirstHalfSize returns the number of subblocks in the first half
func (c *Calendar) FirstHalfSize() int {
	return c.firstHalfSize
}

// IndexOf returns the column index of a subblock label
func (c *Calendar) IndexOf(label string) (int, bool) {
	idx, ok := c.index[label]
	return idx, ok
}

// HalfOf returns the half the subblock at the given index belongs to
func (c *Calendar) HalfOf(index int) Half {
	if index < c.firstHalfSize {
		return FirstHalf
	}
	return SecondHalf
}

// HalfIndex resolves a label to its column index, provided the label belongs to the given half
func (c *Calendar) HalfIndex(label string, half Half) (int, bool) {
	idx, ok := c.IndexOf(label)
	if !ok || c.HalfOf(idx) != half {
		return 0, false
	}
	return idx, true
}

// ParseBlockNumber extracts the block number from a subblock label, e.g. "Block12B" -> 12
func ParseBlockNumber(label string) (int, error) {
	rest, ok := strings.CutPrefix(label, labelPrefix)
	if !ok || len(rest) < 2 {
		return 0, fmt.Errorf("invalid subblock label %q", label)
	}

	block, err := strconv.Atoi(rest[:len(rest)-1])
	if err != nil {
		return 0, fmt.Errorf("invalid subblock label %q: %w", label, err)
	}

	return block, nil
}

// Dates expands the recurrence rule from start and returns one start date per subblock.
// A rule without COUNT or UNTIL is capped at the calendar length.
func (c *Calendar) Dates(start time.Time, rule string) ([]time.Time, error) {
	if rule == "" {
		rule = DefaultSubblockRule
	}

	r, err := rrule.StrToRRule(rule)
	if err != nil {
		return nil, fmt.Errorf("failed to parse subblock rule: %w", err)
	}
	r.DTStart(start)

	dates := make([]time.Time, 0, c.Len())
	iter := r.Iterator()
	for len(dates) < c.Len() {
		next, ok := iter()
		if !ok {
			break
		}
		dates = append(dates, next)
	}

	if len(dates) < c.Len() {
		return nil, fmt.Errorf("subblock rule yields %d dates, need %d", len(dates), c.Len())
	}

	return dates, nil
}
