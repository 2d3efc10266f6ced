package macrocell

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/commands"
	"github.com/stretchr/testify/require"
)

func randomPoints(n, spread int) []Point {
	r := rand.New(rand.NewSource(int64(n)))
	ps := make([]Point, n)
	for i := range ps {
		ps[i] = Point{r.Intn(spread) - spread/2, r.Intn(spread) - spread/2}
	}
	return ps
}

func benchmarkStdMapSet(factor int, b *testing.B) {
	ps := randomPoints(factor, 4*factor)
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		NewPointSet(ps...)
	}
}

func BenchmarkStdMapSet100(b *testing.B)  { benchmarkStdMapSet(100, b) }
func BenchmarkStdMapSet10k(b *testing.B)  { benchmarkStdMapSet(10_000, b) }
func BenchmarkStdMapSet100k(b *testing.B) { benchmarkStdMapSet(100_000, b) }

func benchmarkWithCell(factor int, b *testing.B) {
	ps := randomPoints(factor, 4*factor)
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		boardOf(ps...)
	}
}

func BenchmarkWithCell100(b *testing.B)  { benchmarkWithCell(100, b) }
func BenchmarkWithCell10k(b *testing.B)  { benchmarkWithCell(10_000, b) }
func BenchmarkWithCell100k(b *testing.B) { benchmarkWithCell(100_000, b) }

func benchmarkFromGrid(factor int, b *testing.B) {
	set := NewPointSet(randomPoints(factor, 4*factor)...)
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		FromGrid(set)
	}
}

func BenchmarkFromGrid100(b *testing.B)  { benchmarkFromGrid(100, b) }
func BenchmarkFromGrid10k(b *testing.B)  { benchmarkFromGrid(10_000, b) }
func BenchmarkFromGrid100k(b *testing.B) { benchmarkFromGrid(100_000, b) }

func benchmarkCells(factor int, b *testing.B) {
	board := FromGrid(NewPointSet(randomPoints(factor, 4*factor)...))
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		for range board.Cells() {
		}
	}
}

func BenchmarkCells100(b *testing.B)  { benchmarkCells(100, b) }
func BenchmarkCells10k(b *testing.B)  { benchmarkCells(10_000, b) }
func BenchmarkCells100k(b *testing.B) { benchmarkCells(100_000, b) }

func benchmarkEncode(factor int, b *testing.B) {
	board := FromGrid(NewPointSet(randomPoints(factor, 4*factor)...))
	var buf bytes.Buffer
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		buf.Reset()
		require.NoError(b, EncodeTo(&buf, board))
	}
	b.SetBytes(int64(buf.Len()))
}

func BenchmarkEncode100(b *testing.B)  { benchmarkEncode(100, b) }
func BenchmarkEncode10k(b *testing.B)  { benchmarkEncode(10_000, b) }
func BenchmarkEncode100k(b *testing.B) { benchmarkEncode(100_000, b) }

func benchmarkDecode(factor int, b *testing.B) {
	lines := EncodeLines(FromGrid(NewPointSet(randomPoints(factor, 4*factor)...)))
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		_, err := DecodeLines(lines, nil)
		require.NoError(b, err)
	}
}

func BenchmarkDecode100(b *testing.B)  { benchmarkDecode(100, b) }
func BenchmarkDecode10k(b *testing.B)  { benchmarkDecode(10_000, b) }
func BenchmarkDecode100k(b *testing.B) { benchmarkDecode(100_000, b) }

func benchmarkMarshalBinary(factor int, b *testing.B) {
	board := FromGrid(NewPointSet(randomPoints(factor, 4*factor)...))
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		_, err := board.MarshalBinary()
		require.NoError(b, err)
	}
}

func BenchmarkMarshalBinary10k(b *testing.B) { benchmarkMarshalBinary(10_000, b) }

func BenchmarkExerciser(b *testing.B) {
	parameters := gopter.DefaultTestParametersWithSeed(1593228262585360000)
	parameters.MinSuccessfulTests = b.N
	properties := gopter.NewProperties(parameters)
	properties.Property("board exerciser", commands.Prop(boardCommands))
	var out bytes.Buffer
	reporter := gopter.NewFormatedReporter(false, 98, &out)
	if !properties.Run(reporter) {
		b.Fatal(out.String())
	}
}
