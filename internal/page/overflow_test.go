package page

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuannm99/sqlens/internal/fixture"
	"github.com/tuannm99/sqlens/internal/format"
)

// findSpilledCell scans the b-tree pages for a table-leaf cell whose
// payload overflowed.
func findSpilledCell(t *testing.T, f *File) *TableLeafCell {
	t.Helper()

	for n := 1; n <= f.PageCount(); n++ {
		p, err := Decode(f, n)
		if err != nil {
			continue // overflow pages carry no type byte
		}
		for _, slot := range p.Cells {
			require.NoError(t, slot.Err)
			if cell, ok := slot.Cell.(*TableLeafCell); ok && cell.Payload.Spilled() {
				return cell
			}
		}
	}
	t.Fatal("fixture should contain a spilled payload")
	return nil
}

func TestResolve_ReassemblesPayload(t *testing.T) {
	t.Parallel()

	f := openFixture(t, fixture.OverflowPage)
	cell := findSpilledCell(t, f)

	// Reconstructed length always equals the declared length.
	require.Equal(t, cell.PayloadLen.Value, int64(len(cell.Payload.Bytes)))

	// The local prefix is the format-mandated split of the total.
	wantLocal := format.LocalPayloadSize(cell.PayloadLen.Value, f.UsableSize(), false)
	require.Equal(t, int(wantLocal), cell.Payload.Local.Len)

	chain := cell.Payload.Overflow
	require.NotNil(t, chain)
	require.Equal(t, cell.PayloadLen.Value-wantLocal, chain.SpilledLen)
	require.NotEmpty(t, chain.Pages)
	require.Equal(t, chain.Head.Value, chain.Pages[0].Number)
	// Last link terminates the chain.
	require.Equal(t, 0, chain.Pages[len(chain.Pages)-1].Next.Value)

	// The record's text column survives reassembly byte for byte.
	require.NotNil(t, cell.Record)
	require.Equal(t, fixture.OverflowText(), cell.Record.Values[0].Text)

	// And the assembled prefix equals the page-local bytes.
	local := f.Bytes()[cell.Payload.Local.Start:cell.Payload.Local.End()]
	require.Equal(t, local, cell.Payload.Bytes[:cell.Payload.Local.Len])
}

func TestResolve_BrokenChain(t *testing.T) {
	t.Parallel()

	data, err := fixture.OverflowPage(t.TempDir())
	require.NoError(t, err)
	f, err := NewFile(data)
	require.NoError(t, err)
	cell := findSpilledCell(t, f)

	// Terminate the chain at its first link and re-resolve.
	first := cell.Payload.Overflow.Pages[0].Number
	binary.BigEndian.PutUint32(data[f.PageOffset(first):], 0)

	_, err = Resolve(f, cell.Payload.Overflow.Head.Value, cell.Payload.Overflow.SpilledLen)
	require.ErrorIs(t, err, ErrBrokenOverflowChain)
}

func TestDecode_SpilledRecordHeader(t *testing.T) {
	t.Parallel()

	f := openFixture(t, fixture.WideRow)

	// The wide row's record header exceeds its local payload portion,
	// so the record is rejected but the cell itself survives with its
	// payload and overflow chain intact.
	for n := 1; n <= f.PageCount(); n++ {
		p, err := Decode(f, n)
		if err != nil {
			continue // overflow pages carry no type byte
		}
		for _, slot := range p.Cells {
			if slot.Err == nil {
				continue
			}
			require.ErrorIs(t, slot.Err, format.ErrUnsupportedSpilledHeader)

			cell, ok := slot.Cell.(*TableLeafCell)
			require.True(t, ok, "slot should keep the decoded cell next to the error")
			require.Nil(t, cell.Record)
			require.True(t, cell.Payload.Spilled())
			require.Equal(t, cell.PayloadLen.Value, int64(len(cell.Payload.Bytes)))
			return
		}
	}
	t.Fatal("fixture should contain a cell with a spilled record header")
}

func TestResolve_PageOutOfRange(t *testing.T) {
	t.Parallel()

	f := openFixture(t, fixture.OverflowPage)
	_, err := Resolve(f, f.PageCount()+10, 100)
	require.ErrorIs(t, err, ErrOverflowPageOutOfRange)
}
