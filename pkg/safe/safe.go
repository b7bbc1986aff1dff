package safe

import (
	"fmt"
	"runtime/debug"

	"go.uber.org/zap"

	"github.com/YaganovValera/httplifecycle/pkg/logger"
)

// Task: владеющий хэндл одной goroutine с защитой от panic.
// Владелец обязан дождаться её завершения через Wait.
type Task struct {
	name string
	done chan struct{}
	err  error
	log  *logger.Logger
}

// Spawn запускает fn в отдельной goroutine.
// Ошибка и panic не пробрасываются наружу: они логируются и
// сохраняются, чтобы владелец получил их из Wait.
func Spawn(log *logger.Logger, name string, fn func() error) *Task {
	t := &Task{
		name: name,
		done: make(chan struct{}),
		log:  log.Named("safe"),
	}
	go t.run(fn)
	return t
}

func (t *Task) run(fn func() error) {
	defer close(t.done)
	defer t.recoverPanic()

	if err := fn(); err != nil {
		t.log.Error("task failed", zap.String("task", t.name), zap.Error(err))
		t.err = err
	}
}

// recoverPanic ловит панику и логирует её.
func (t *Task) recoverPanic() {
	if r := recover(); r != nil {
		t.log.Error("panic recovered",
			zap.String("task", t.name),
			zap.Any("error", r),
			zap.ByteString("stack", debug.Stack()),
		)
		t.err = fmt.Errorf("safe: task %q panicked: %v", t.name, r)
	}
}

// Name возвращает имя задачи.
func (t *Task) Name() string { return t.name }

// Done закрывается после выхода goroutine.
func (t *Task) Done() <-chan struct{} { return t.done }

// Wait блокирует до завершения goroutine и возвращает её ошибку.
func (t *Task) Wait() error {
	<-t.done
	return t.err
}
