package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/antonio-alexander/go-employee-payroll/internal"
	"github.com/antonio-alexander/go-employee-payroll/internal/client"
	"github.com/antonio-alexander/go-employee-payroll/internal/data"
	"github.com/antonio-alexander/go-employee-payroll/internal/logic"
	"github.com/antonio-alexander/go-employee-payroll/internal/utilities"

	"github.com/pkg/errors"
)

var (
	Version   string
	GitCommit string
	GitBranch string
)

func init() {
	if Version = data.Version; Version == "" {
		Version = "<no_version_provided>"
	}
	if GitCommit = data.GitCommit; GitCommit == "" {
		GitCommit = "<no_git_commit>"
	}
	if GitBranch = data.GitBranch; GitBranch == "" {
		GitBranch = "<no_git_branch>"
	}
}

func main() {
	args := os.Args[1:]
	envs, err := internal.EnvsFromFiles(os.Environ(), ".env")
	if err != nil {
		os.Stderr.WriteString(err.Error())
		os.Exit(1)
	}
	osSignal := make(chan os.Signal, 1)
	signal.Notify(osSignal, syscall.SIGINT, syscall.SIGTERM)
	if err := Main(args, envs, osSignal); err != nil {
		os.Stderr.WriteString(err.Error())
		os.Exit(1)
	}
}

// scenarioConcurrentMounts mounts a view per client at the same time, each
// client searches and exports its view until the scenario ends; the
// service's counters show how many loads succeeded or failed
func scenarioConcurrentMounts(ctx context.Context, envs map[string]string, logger utilities.Logger,
	clients ...client.Client) error {
	const correlationId string = "scenario_concurrent_mounts"
	const minClients int = 1

	var searchInterval time.Duration = time.Second
	var scenarioDuration time.Duration = 10 * time.Second
	var wg sync.WaitGroup

	if s := envs["SCENARIO_SEARCH_INTERVAL"]; s != "" {
		i, _ := strconv.Atoi(s)
		searchInterval = time.Duration(i) * time.Second
	}
	if s := envs["SCENARIO_DURATION"]; s != "" {
		i, _ := strconv.Atoi(s)
		scenarioDuration = time.Duration(i) * time.Second
	}
	if len(clients) < minClients {
		return errors.New("not enough clients provided")
	}
	searchTerm := envs["SCENARIO_SEARCH_TERM"]

	//generate context
	ctx = internal.CtxWithCorrelationId(ctx, correlationId)

	//clear counters and timers
	if err := clients[0].CountersClear(ctx); err != nil {
		return err
	}
	if err := clients[0].TimersClear(ctx); err != nil {
		return err
	}

	//generate start/stop channels
	start, stop := make(chan struct{}), make(chan struct{})

	//create a go routine per client, each with its own view
	for i := range clients {
		wg.Add(1)
		go func(ctx context.Context, clientNumber int, client client.Client) {
			defer wg.Done()

			correlationId := fmt.Sprintf("scenario_concurrent_mounts_%d", clientNumber)
			ctx = internal.CtxWithCorrelationId(ctx, correlationId)
			<-start
			view, err := client.ViewCreate(ctx)
			if err != nil {
				logger.Error(ctx, "error while creating view: %s", err)
				return
			}
			ctx = internal.CtxWithViewId(ctx, view.ViewId)
			defer func() {
				if err := client.ViewDelete(context.Background(), view.ViewId); err != nil {
					logger.Error(ctx, "error while deleting view: %s", err)
				}
			}()
			if view, err = client.ViewWait(ctx, view.ViewId); err != nil {
				logger.Error(ctx, "error while waiting for view: %s", err)
				return
			}
			if view.Status == data.ViewStatusFailed {
				logger.Error(ctx, "view failed to load: %s", view.Error)
				return
			}
			logger.Info(ctx, "view loaded with %d employees", len(view.Employees))
			tSearch := time.NewTicker(searchInterval)
			defer tSearch.Stop()
			for {
				select {
				case <-stop:
					return
				case <-tSearch.C:
					employees, err := client.EmployeesSearch(ctx, view.ViewId,
						data.EmployeeSearch{Term: searchTerm})
					if err != nil {
						logger.Error(ctx, "error while searching employees: %s", err)
						continue
					}
					if _, err := client.EmployeesExport(ctx, view.ViewId, data.FormatCsv); err != nil {
						logger.Error(ctx, "error while exporting employees: %s", err)
						continue
					}
					logger.Debug(ctx, "found %d employees matching %q", len(employees), searchTerm)
				}
			}
		}(ctx, i, clients[i])
	}
	close(start)

	//allow go routines to run
	select {
	case <-ctx.Done():
	case <-time.After(scenarioDuration):
	}

	//stop go routines
	close(stop)
	wg.Wait()

	//use initial client to get the outcomes from the server
	counters, err := clients[0].CountersRead(ctx)
	if err != nil {
		return err
	}
	successes := counters.Successes[logic.CounterViewLoad]
	failures := counters.Failures[logic.CounterViewLoad]
	logger.Info(ctx, "views loaded (%d/%d), exports: %d",
		successes, successes+failures, counters.Successes[logic.CounterEmployeesExport])
	timers, err := clients[0].TimersRead(ctx)
	if err != nil {
		return err
	}
	for group, average := range timers.Averages {
		logger.Info(ctx, "%s averaged %v", group, time.Duration(average))
	}
	return nil
}

func Main(args []string, envs map[string]string, osSignal chan (os.Signal)) error {
	var clients []client.Client
	var wg sync.WaitGroup

	//create context
	ctx, cancel := internal.LaunchContext(&wg, osSignal)
	defer cancel()

	// create logger
	logger := utilities.NewLogger()
	_ = logger.Configure(envs)

	//print version info
	logger.Info(ctx, "scenarios: go-employee-payroll v%s (%s) built from: %s",
		Version, GitCommit, GitBranch)

	nClients, _ := strconv.Atoi(envs["N_CLIENTS"])
	for i := 0; i < nClients; i++ {
		//create client
		client := client.NewClient(logger)
		if err := client.Configure(envs); err != nil {
			return err
		}
		if err := client.Open(ctx); err != nil {
			return err
		}
		defer func() {
			if err := client.Close(context.Background()); err != nil {
				logger.Error(ctx, "error while closing client: %s", err)
			}
		}()
		clients = append(clients, client)
	}

	// execute scenario
	switch scenario := envs["SCENARIO"]; scenario {
	default:
		return errors.Errorf("unsupported scenario: %s", scenario)
	case "concurrent_mounts":
		logger.Info(ctx, "executing %s scenario", scenario)
		if err := scenarioConcurrentMounts(ctx, envs, logger, clients...); err != nil {
			logger.Error(ctx, "error while executing %s scenario: %s", scenario, err)
		}
	}
	cancel()
	wg.Wait()
	return nil
}
