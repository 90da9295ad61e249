// Command tabletmapbench drives a tabletmap.Store with synthetic load,
// adapted from the teacher's brimstore-valuesstore benchmark CLI: the same
// flags-driven, client-sharded-goroutine-pool shape, retargeted from
// 128-bit hash keys at a disk-backed ValuesStore to tabletmap's row/column
// Keys at an in-memory Store.
package main

import (
	"fmt"
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	flags "github.com/jessevdk/go-flags"

	"github.com/gholt/brimutil"
	"github.com/gholt/tabletmap"
)

type optsStruct struct {
	Clients int `long:"clients" description:"The number of clients. Default: cores*cores"`
	Cores   int `long:"cores" description:"The number of cores. Default: CPU core count"`
	Length  int `short:"l" long:"length" description:"Length of values. Default: 100"`
	Number  int `short:"n" long:"number" description:"Number of rows. Default: 0"`
	Random  int `long:"random" description:"Random number seed. Default: 0"`

	Positional struct {
		Tests []string `name:"tests" description:"write read scan"`
	} `positional-args:"yes"`

	rowspace []byte
	value    []byte
	st       runtime.MemStats
	store    *tabletmap.Store
}

var (
	cf     = []byte("cf")
	cq     = []byte("cq")
	cv     = []byte("")
	ts     = time.Now().UnixNano()
	opts   optsStruct
	parser = flags.NewParser(&opts, flags.Default)
)

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		args = append(args, "-h")
	}
	if _, err := parser.ParseArgs(args); err != nil {
		os.Exit(1)
	}
	for _, arg := range opts.Positional.Tests {
		switch arg {
		case "write":
		case "read":
		case "scan":
		default:
			fmt.Fprintf(os.Stderr, "Unknown test named %#v.\n", arg)
			os.Exit(1)
		}
	}
	if opts.Length == 0 {
		opts.Length = 100
	}
	if opts.Cores > 0 {
		runtime.GOMAXPROCS(opts.Cores)
	} else if os.Getenv("GOMAXPROCS") == "" {
		runtime.GOMAXPROCS(runtime.NumCPU())
	}
	opts.Cores = runtime.GOMAXPROCS(0)
	if opts.Clients == 0 {
		opts.Clients = opts.Cores * opts.Cores
	}

	opts.rowspace = make([]byte, opts.Number*8)
	brimutil.NewSeededScrambled(int64(opts.Random)).Read(opts.rowspace)
	opts.value = make([]byte, opts.Length)
	brimutil.NewSeededScrambled(int64(opts.Random)).Read(opts.value)

	fmt.Println(opts.Cores, "cores")
	fmt.Println(opts.Clients, "clients")
	fmt.Println(opts.Number, "rows")
	fmt.Println(opts.Length, "value length")
	memstat()

	begin := time.Now()
	opts.store = tabletmap.New(tabletmap.OptIdentity("tabletmapbench"))
	dur := time.Since(begin)
	fmt.Println(dur, "to start Store")
	memstat()

	for _, arg := range opts.Positional.Tests {
		switch arg {
		case "write":
			write()
		case "read":
			read()
		case "scan":
			scan()
		}
		memstat()
	}

	begin = time.Now()
	opts.store.Close()
	dur = time.Since(begin)
	fmt.Println(dur, "to close Store")
	memstat()

	stats := opts.store.Stats()
	fmt.Println(stats.String())
}

func memstat() {
	lastAlloc := opts.st.TotalAlloc
	runtime.ReadMemStats(&opts.st)
	deltaAlloc := opts.st.TotalAlloc - lastAlloc
	lastAlloc = opts.st.TotalAlloc
	fmt.Printf("%0.2fG total alloc, %0.2fG delta\n\n", float64(opts.st.TotalAlloc)/1024/1024/1024, float64(deltaAlloc)/1024/1024/1024)
}

func rowKey(row []byte) tabletmap.Key {
	return tabletmap.Key{
		Row:              row,
		ColumnFamily:     cf,
		ColumnQualifier:  cq,
		ColumnVisibility: cv,
		Timestamp:        ts,
	}
}

func clientShare(client int) []byte {
	number := len(opts.rowspace) / 8
	numberPer := number / opts.Clients
	if client == opts.Clients-1 {
		return opts.rowspace[numberPer*client*8:]
	}
	return opts.rowspace[numberPer*client*8 : numberPer*(client+1)*8]
}

func write() {
	begin := time.Now()
	wg := &sync.WaitGroup{}
	wg.Add(opts.Clients)
	var errs uint64
	for i := 0; i < opts.Clients; i++ {
		go func(client int) {
			rows := clientShare(client)
			for o := 0; o < len(rows); o += 8 {
				row := rows[o : o+8]
				if err := opts.store.Put(rowKey(row), tabletmap.Value(opts.value)); err != nil {
					atomic.AddUint64(&errs, 1)
				}
			}
			wg.Done()
		}(i)
	}
	wg.Wait()
	dur := time.Since(begin)
	fmt.Printf("%s %.0f/s to write %d rows\n", dur, float64(opts.Number)/(float64(dur)/float64(time.Second)), opts.Number)
	if errs > 0 {
		fmt.Println(errs, "ERRORS!")
	}
}

func read() {
	var missing uint64
	begin := time.Now()
	wg := &sync.WaitGroup{}
	wg.Add(opts.Clients)
	for i := 0; i < opts.Clients; i++ {
		go func(client int) {
			var m uint64
			rows := clientShare(client)
			for o := 0; o < len(rows); o += 8 {
				row := rows[o : o+8]
				_, ok, err := opts.store.Get(rowKey(row))
				if err != nil {
					panic(err)
				}
				if !ok {
					m++
				}
			}
			if m > 0 {
				atomic.AddUint64(&missing, m)
			}
			wg.Done()
		}(i)
	}
	wg.Wait()
	dur := time.Since(begin)
	fmt.Printf("%s %.0f/s to read %d rows\n", dur, float64(opts.Number)/(float64(dur)/float64(time.Second)), opts.Number)
	if missing > 0 {
		fmt.Println(missing, "MISSING!")
	}
}

func scan() {
	begin := time.Now()
	sc, err := tabletmap.NewScanner(opts.store, tabletmap.Key{}, tabletmap.Key{}, false)
	if err != nil {
		panic(err)
	}
	defer sc.Close()
	var n uint64
	for {
		_, _, ok := sc.Top()
		if !ok {
			break
		}
		n++
		if err := sc.Advance(); err != nil {
			panic(err)
		}
	}
	dur := time.Since(begin)
	fmt.Printf("%s %.0f/s to scan %d rows\n", dur, float64(n)/(float64(dur)/float64(time.Second)), n)
}
