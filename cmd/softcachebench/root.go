package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/softcache/cache"
	"github.com/sarchlab/softcache/cl"
	"github.com/sarchlab/softcache/datarecording"
	"github.com/sarchlab/softcache/monitoring"
)

var (
	organisationFlag string
	policyFlag       string
	cacheSizeFlag    int
	linesPerSetFlag  int
	writePolicyFlag  string

	matrixSizeFlag int
	iterationsFlag int

	logPathFlag string
	dbPathFlag  string
	monitorFlag bool
	recordFlag  bool
)

// rootCmd runs the matrix-multiply workload through the cache.
var rootCmd = &cobra.Command{
	Use:   "softcachebench",
	Short: "Benchmark the softcache with a matrix-multiply workload",
	Long: `softcachebench repeatedly multiplies two matrices on the ` +
		`software device, routing every buffer operation through the ` +
		`softcache, and reports how many transfers the cache elided.`,
	RunE: runBench,
}

// Execute runs the benchmark command.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// A .env file can pre-set the log and database locations.
	_ = godotenv.Load()

	rootCmd.Flags().StringVarP(&organisationFlag, "organisation", "o",
		"direct_mapping",
		"cache organisation: direct_mapping, set_associative, fully_associative")
	rootCmd.Flags().StringVarP(&policyFlag, "replacement-policy", "r",
		"lru", "replacement policy: lru, fifo, random, smallest")
	rootCmd.Flags().IntVarP(&cacheSizeFlag, "cache-size", "c",
		16, "total cache lines (candidate set count under direct mapping)")
	rootCmd.Flags().IntVarP(&linesPerSetFlag, "lines-per-set", "l",
		0, "requested set count (set_associative only)")
	rootCmd.Flags().StringVarP(&writePolicyFlag, "write-policy", "w",
		"write_through", "write policy: write_through, write_back")

	rootCmd.Flags().IntVar(&matrixSizeFlag, "matrix-size", 64,
		"width and height of the square matrices")
	rootCmd.Flags().IntVar(&iterationsFlag, "iterations", 10,
		"number of kernel launches")

	rootCmd.Flags().StringVar(&logPathFlag, "log",
		envOr("SOFTCACHE_LOG", "log.txt"), "profile log file")
	rootCmd.Flags().StringVar(&dbPathFlag, "db",
		os.Getenv("SOFTCACHE_DB"), "sqlite database for profile rows")
	rootCmd.Flags().BoolVar(&monitorFlag, "monitor", false,
		"serve cache state over HTTP while the workload runs")
	rootCmd.Flags().BoolVar(&recordFlag, "record", false,
		"record the profile into sqlite")
}

func runBench(_ *cobra.Command, _ []string) error {
	org, err := cache.ParseOrganisation(organisationFlag)
	if err != nil {
		return err
	}

	policy, err := cache.ParseReplacementPolicy(policyFlag)
	if err != nil {
		return err
	}

	writeBack, err := cache.ParseWritePolicy(writePolicyFlag)
	if err != nil {
		return err
	}

	if org == cache.SetAssociative && linesPerSetFlag <= 0 {
		return fmt.Errorf("set_associative organisation needs --lines-per-set")
	}

	driver := cl.NewSimDriver()

	c := cache.MakeBuilder().
		WithDriver(driver).
		WithOrganisation(org).
		WithReplacementPolicy(policy).
		WithCacheSize(cacheSizeFlag).
		WithRequestedSets(linesPerSetFlag).
		WithWriteBack(writeBack).
		WithProfileLogPath(logPathFlag).
		Build("SoftCache")

	if monitorFlag {
		monitor := monitoring.NewMonitor()
		monitor.RegisterCache(c)
		monitor.StartServer()
	}

	if err := runMatMul(driver, c, matrixSizeFlag, iterationsFlag); err != nil {
		return err
	}

	c.PrintCache()
	c.PrintTimeProfile()

	extra := []string{
		"matmul",
		fmt.Sprintf("%d", matrixSizeFlag),
		fmt.Sprintf("%d", iterationsFlag),
	}
	if err := c.WriteTimeProfile(extra...); err != nil {
		return err
	}

	if recordFlag {
		recorder := datarecording.New(dbPathFlag)
		profiles := datarecording.NewProfileRecorder(recorder)
		profiles.Record(c, "matmul")
		profiles.Flush()
	}

	if status := c.Release(); status != cl.Success {
		fmt.Fprintf(os.Stderr, "teardown released with %s\n",
			cl.StatusName(status))
	}

	atexit.Exit(0)

	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}
