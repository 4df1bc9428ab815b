package cfg

type Cfg struct {
	// Storage configuration
	DBPath string

	// Application configuration
	FeedsDir          string
	Port              string
	WorkerCount       int
	SchedulerInterval int
	EntryLimit        int

	// Run mode
	Fetch bool

	// Application metadata
	UserAgent string
	Debug     bool
	Version   string
}
