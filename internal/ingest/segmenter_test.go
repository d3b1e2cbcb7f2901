package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegmentReportPage(t *testing.T) {
	seg, err := NewSegmenter()
	require.NoError(t, err)

	text := `DEBTORS AGE ANALYSIS
Page 1
Account No  Name            Current     30      60      90     120     150     180

12345  J SMITH        100.00   50.00    0.00    0.00    0.00    0.00    0.00
67890  A JONES        200.00    0.00   75.50    0.00    0.00    0.00    0.00
       jones@example.com

Grand Total          300.00   50.00   75.50    0.00    0.00    0.00    0.00`

	blocks, dropped := seg.Segment(text)
	require.Len(t, blocks, 2)
	assert.Equal(t, 0, dropped)
	assert.Contains(t, blocks[0], "12345")
	assert.Contains(t, blocks[1], "67890")
	assert.Contains(t, blocks[1], "jones@example.com")
}

func TestSegmentCountsOrphanRuns(t *testing.T) {
	seg, err := NewSegmenter()
	require.NoError(t, err)

	text := `some stray fragment
that spans two lines

12345  J SMITH  100.00

another fragment`

	blocks, dropped := seg.Segment(text)
	assert.Len(t, blocks, 1)
	// each contiguous orphan run drops once, however many lines it holds
	assert.Equal(t, 2, dropped)
}

func TestSegmentBlankLineEndsBlock(t *testing.T) {
	seg, err := NewSegmenter()
	require.NoError(t, err)

	text := "12345 J SMITH 100.00\n\nsmith@example.com"

	blocks, dropped := seg.Segment(text)
	require.Len(t, blocks, 1)
	assert.NotContains(t, blocks[0], "smith@example.com")
	assert.Equal(t, 1, dropped)
}

func TestSegmentExtraSkipPatterns(t *testing.T) {
	seg, err := NewSegmenter(`(?i)^\s*branch:`)
	require.NoError(t, err)

	blocks, dropped := seg.Segment("Branch: Main Street\n12345 J SMITH 100.00")
	assert.Len(t, blocks, 1)
	assert.Equal(t, 0, dropped)
}

func TestSegmentRejectsBadSkipPattern(t *testing.T) {
	_, err := NewSegmenter(`[unterminated`)
	require.Error(t, err)
}
