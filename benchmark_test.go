package asynclog

import (
	"errors"
	"io"
	"path/filepath"
	"testing"
)

func createBenchService(b *testing.B) *Service {
	b.Helper()
	svc := NewService(WithDiagnosticWriter(io.Discard))
	if err := svc.Init(LevelInfo, FileLog, filepath.Join(b.TempDir(), "bench.log"), 0); err != nil {
		b.Fatal(err)
	}
	b.Cleanup(func() { svc.Close(false) })
	return svc
}

func BenchmarkInfo(b *testing.B) {
	svc := createBenchService(b)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		svc.Info("benchmark message")
	}
}

func BenchmarkInfoParallel(b *testing.B) {
	svc := createBenchService(b)
	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			svc.Info("parallel benchmark message")
		}
	})
}

func BenchmarkFiltered(b *testing.B) {
	svc := createBenchService(b)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		svc.DebugFunc(func() any { return "never evaluated" })
	}
}

func BenchmarkError(b *testing.B) {
	svc := createBenchService(b)
	err := errors.New("benchmark failure")
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		svc.ErrorErr(err)
	}
}

func BenchmarkRender(b *testing.B) {
	h := Header{Level: LevelInfo, ThreadID: 1, Site: Site{File: "bench.go", Caller: "run", Line: 10}}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		r := NewMessageRecord(h, "render me")
		if _, err := r.Render(); err != nil {
			b.Fatal(err)
		}
	}
}
