package logic

import (
	"bytes"
	"context"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/antonio-alexander/go-employee-payroll/internal"
	"github.com/antonio-alexander/go-employee-payroll/internal/data"
	"github.com/antonio-alexander/go-employee-payroll/internal/export"
	"github.com/antonio-alexander/go-employee-payroll/internal/source"
	"github.com/antonio-alexander/go-employee-payroll/internal/utilities"

	"github.com/pkg/errors"
)

const (
	CounterViewLoad        string = "view_load"
	CounterEmployeesImport string = "employees_import"
	CounterEmployeesExport string = "employees_export"
)

var (
	ErrViewNotFound    = errors.New("view not found")
	ErrViewNotLoaded   = errors.New("view not loaded")
	ErrImportMalformed = errors.New("employee import malformed")
	ErrNotOpen         = errors.New("logic not open")
)

type Logic interface {
	ViewCreate(ctx context.Context) (*data.View, error)
	ViewRead(ctx context.Context, viewId string) (*data.View, error)
	ViewDelete(ctx context.Context, viewId string) error
	EmployeesSearch(ctx context.Context, viewId string,
		search data.EmployeeSearch) ([]*data.Employee, error)
	EmployeesImport(ctx context.Context, viewId string,
		reader io.Reader) ([]*data.Employee, error)
	EmployeesExport(ctx context.Context, viewId string,
		writer io.Writer, format string) error
}

type view struct {
	data.View
	cancel context.CancelFunc
}

type logic struct {
	sync.RWMutex
	sync.WaitGroup
	config struct {
		viewTTL       time.Duration
		pruneInterval time.Duration
	}
	views  map[string]*view //map[view_id]view
	ctx    context.Context
	cancel context.CancelFunc
	source source.Source
	utilities.Logger
	utilities.Counter
}

func NewLogic(parameters ...any) interface {
	internal.Configurer
	internal.Opener
	internal.Clearer
	Logic
} {
	l := &logic{views: make(map[string]*view)}
	for _, parameter := range parameters {
		switch p := parameter.(type) {
		case source.Source:
			l.source = p
		case utilities.Logger:
			l.Logger = p
		case utilities.Counter:
			l.Counter = p
		}
	}
	if l.Logger == nil {
		l.Logger = utilities.NewLogger()
	}
	if l.Counter == nil {
		l.Counter = utilities.NewCounter()
	}
	return l
}

func (l *logic) launchPrune(ctx context.Context) {
	started := make(chan struct{})
	l.Add(1)
	go func() {
		defer l.Done()

		pruneFx := func() {
			l.Lock()
			defer l.Unlock()

			for viewId, v := range l.views {
				if time.Since(time.Unix(0, v.LastAccessed)) > l.config.viewTTL {
					v.cancel()
					delete(l.views, viewId)
					l.Debug(internal.CtxWithViewId(ctx, viewId), "pruned idle view")
				}
			}
		}
		tPrune := time.NewTicker(l.config.pruneInterval)
		defer tPrune.Stop()
		close(started)
		for {
			select {
			case <-ctx.Done():
				return
			case <-tPrune.C:
				pruneFx()
			}
		}
	}()
	<-started
}

// launchLoad issues the one and only fetch for a view; the view leaves
// the loading status exactly once, whatever the outcome
func (l *logic) launchLoad(ctx context.Context, v *view) {
	l.Add(1)
	go func() {
		defer l.Done()

		employees, err := l.source.EmployeesRead(ctx)
		l.Lock()
		defer l.Unlock()

		if v.Status != data.ViewStatusLoading {
			return
		}
		if err != nil {
			v.Status, v.Error = data.ViewStatusFailed, err.Error()
			l.IncrementFailure(CounterViewLoad)
			l.Error(ctx, "error while loading employees: %s", err)
			return
		}
		v.Status, v.Employees = data.ViewStatusLoaded, employees
		l.IncrementSuccess(CounterViewLoad)
		l.Debug(ctx, "loaded %d employees", len(employees))
	}()
}

func (l *logic) Configure(envs map[string]string) error {
	l.Lock()
	defer l.Unlock()

	if s, ok := envs["VIEW_TTL"]; ok {
		viewTTL, _ := strconv.Atoi(s)
		l.config.viewTTL = time.Second * time.Duration(viewTTL)
	}
	if l.config.viewTTL <= 0 {
		l.config.viewTTL = 15 * time.Minute
	}
	if s, ok := envs["VIEW_PRUNE_INTERVAL"]; ok {
		pruneInterval, _ := strconv.Atoi(s)
		l.config.pruneInterval = time.Second * time.Duration(pruneInterval)
	}
	if l.config.pruneInterval <= 0 {
		l.config.pruneInterval = time.Minute
	}
	return nil
}

func (l *logic) Open(ctx context.Context) error {
	l.Lock()
	defer l.Unlock()

	if l.source == nil {
		return errors.New("employee source not provided")
	}
	if l.config.viewTTL <= 0 || l.config.pruneInterval <= 0 {
		return errors.New("logic not configured")
	}
	l.views = make(map[string]*view)
	l.ctx, l.cancel = context.WithCancel(context.Background())
	l.launchPrune(l.ctx)
	return nil
}

func (l *logic) Close(ctx context.Context) error {
	l.Lock()
	if l.cancel == nil {
		l.Unlock()
		return nil
	}
	l.cancel()
	l.ctx, l.cancel = nil, nil
	l.Unlock()

	//in-flight loads need the lock to finish
	l.Wait()

	l.Lock()
	defer l.Unlock()
	l.views = make(map[string]*view)
	return nil
}

func (l *logic) Clear(ctx context.Context) error {
	l.Lock()
	defer l.Unlock()

	for _, v := range l.views {
		v.cancel()
	}
	l.views = make(map[string]*view)
	return nil
}

// read must be called while holding the lock
func (l *logic) read(viewId string) (*view, error) {
	v, ok := l.views[viewId]
	if !ok {
		return nil, errors.Wrap(ErrViewNotFound, viewId)
	}
	v.LastAccessed = time.Now().UnixNano()
	return v, nil
}

// readLoaded must be called while holding the lock
func (l *logic) readLoaded(viewId string) (*view, error) {
	v, err := l.read(viewId)
	if err != nil {
		return nil, err
	}
	if v.Status != data.ViewStatusLoaded {
		return nil, errors.Wrap(ErrViewNotLoaded, string(v.Status))
	}
	return v, nil
}

func (l *logic) ViewCreate(ctx context.Context) (*data.View, error) {
	l.Lock()
	defer l.Unlock()

	if l.ctx == nil {
		return nil, ErrNotOpen
	}
	now := time.Now().UnixNano()
	viewId := internal.GenerateId()
	viewCtx, cancel := context.WithCancel(l.ctx)
	viewCtx = internal.CtxWithCorrelationId(viewCtx, internal.CorrelationIdFromCtx(ctx))
	viewCtx = internal.CtxWithViewId(viewCtx, viewId)
	v := &view{
		View: data.View{
			ViewId:       viewId,
			Status:       data.ViewStatusLoading,
			Created:      now,
			LastAccessed: now,
		},
		cancel: cancel,
	}
	l.views[viewId] = v
	l.launchLoad(viewCtx, v)
	l.Trace(viewCtx, "created view")
	return data.CopyView(&v.View), nil
}

func (l *logic) ViewRead(ctx context.Context, viewId string) (*data.View, error) {
	l.Lock()
	defer l.Unlock()

	v, err := l.read(viewId)
	if err != nil {
		return nil, err
	}
	return data.CopyView(&v.View), nil
}

func (l *logic) ViewDelete(ctx context.Context, viewId string) error {
	l.Lock()
	defer l.Unlock()

	v, ok := l.views[viewId]
	if !ok {
		return errors.Wrap(ErrViewNotFound, viewId)
	}
	v.cancel()
	delete(l.views, viewId)
	l.Trace(internal.CtxWithViewId(ctx, viewId), "deleted view")
	return nil
}

func (l *logic) EmployeesSearch(ctx context.Context, viewId string, search data.EmployeeSearch) ([]*data.Employee, error) {
	l.Lock()
	defer l.Unlock()

	v, err := l.readLoaded(viewId)
	if err != nil {
		return nil, err
	}
	v.Search = search.Term
	return Filter(v.Employees, search), nil
}

// EmployeesImport replaces the employees of the view wholesale with the
// json array read from reader; if it can't be parsed, the view is left
// untouched
func (l *logic) EmployeesImport(ctx context.Context, viewId string, reader io.Reader) ([]*data.Employee, error) {
	ctx = internal.CtxWithViewId(ctx, viewId)
	l.Lock()
	_, err := l.readLoaded(viewId)
	l.Unlock()
	if err != nil {
		return nil, err
	}
	buffer := &bytes.Buffer{}
	if _, err := io.Copy(buffer, reader); err != nil {
		l.IncrementFailure(CounterEmployeesImport)
		return nil, errors.Wrap(err, "unable to read import")
	}
	employees, err := data.DecodeEmployees(buffer.Bytes())
	if err != nil {
		l.IncrementFailure(CounterEmployeesImport)
		l.Debug(ctx, "rejected import: %s", err)
		return nil, errors.Wrap(ErrImportMalformed, err.Error())
	}

	l.Lock()
	defer l.Unlock()
	v, err := l.readLoaded(viewId)
	if err != nil {
		return nil, err
	}
	v.Employees = employees
	l.IncrementSuccess(CounterEmployeesImport)
	l.Trace(ctx, "imported %d employees", len(employees))
	return data.CopyEmployees(employees), nil
}

// EmployeesExport writes every employee of the view, ignoring any search
func (l *logic) EmployeesExport(ctx context.Context, viewId string, writer io.Writer, format string) error {
	l.Lock()
	v, err := l.readLoaded(viewId)
	if err != nil {
		l.Unlock()
		return err
	}
	employees := data.CopyEmployees(v.Employees)
	l.Unlock()

	if err := export.Write(writer, format, employees); err != nil {
		l.IncrementFailure(CounterEmployeesExport)
		return err
	}
	l.IncrementSuccess(CounterEmployeesExport)
	l.Trace(internal.CtxWithViewId(ctx, viewId), "exported %d employees as %q", len(employees), format)
	return nil
}
