package persist

import (
	"fmt"
	"testing"
	"time"

	"github.com/td0m/taskflow/pkg/task"
)

// years of heavy use: 30 tasks a day for 10 years
const benchTasks = 365 * 30 * 10

func benchPayload(b *testing.B) []byte {
	b.Helper()
	now := time.Now()
	ts := make([]task.Task, benchTasks)
	for i := range ts {
		ts[i] = task.Task{
			ID:         fmt.Sprintf("%08d-0000-4000-8000-000000000000", i),
			Title:      fmt.Sprintf("task number %d", i),
			CategoryID: "work",
			ClassIDs:   []string{"urgent"},
			CreatedAt:  now,
			Order:      i,
			Completed:  i%3 == 0,
		}
	}
	bs, err := task.EncodeTasks(ts)
	if err != nil {
		b.Fatal(err)
	}
	return bs
}

func benchmarkAdapter(b *testing.B, open func(dir string) (Adapter, error)) {
	bs := benchPayload(b)
	a, err := open(b.TempDir())
	if err != nil {
		b.Fatal(err)
	}
	defer a.Close()

	b.ReportMetric(float64(len(bs))/1024/1024, "MB/payload")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := a.Save(task.KeyTasks, bs); err != nil {
			b.Fatal(err)
		}
		loaded, _, err := a.Load(task.KeyTasks)
		if err != nil {
			b.Fatal(err)
		}
		if _, err := task.DecodeTasks(loaded); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDir_SaveLoad(b *testing.B) {
	benchmarkAdapter(b, func(dir string) (Adapter, error) { return OpenDir(dir, time.Second) })
}

func BenchmarkSQLite_SaveLoad(b *testing.B) {
	benchmarkAdapter(b, func(dir string) (Adapter, error) { return OpenSQLite(dir) })
}
