package logger

import (
	"os"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// configuration mirrors the original std logger's viper-driven settings
// (§6: ambient logging carried even though report/AI consumers of the
// event log are out of scope).
type configuration struct {
	AppName     string
	Environment string
	ForceLocal  bool
	Level       string
	Buffer      int
}

func parseConfiguration() configuration {
	config := configuration{
		AppName:     "houseturn",
		Environment: "development",
		ForceLocal:  false,
		Level:       "info",
		Buffer:      500,
	}

	if viper.IsSet("Logger.Name") {
		config.AppName = viper.GetString("Logger.Name")
	}
	if viper.IsSet("Logger.Environment") {
		config.Environment = viper.GetString("Logger.Environment")
	}
	if viper.IsSet("Logger.ForceLocal") {
		config.ForceLocal = viper.GetBool("Logger.ForceLocal")
	}
	if viper.IsSet("Logger.Level") {
		config.Level = viper.GetString("Logger.Level")
	}
	if viper.IsSet("Logger.Buffer") {
		config.Buffer = viper.GetInt("Logger.Buffer")
	}

	return config
}

type traceMessage struct {
	level   Severity
	module  string
	content string
}

// ZerologLogger forwards Trace calls to an underlying zerolog.Logger
// tagged with the application's instance ID and public IP, keeping the
// original logger's buffered-channel shape so callers never block on a
// slow sink.
type ZerologLogger struct {
	zl zerolog.Logger

	instanceID string
	publicIP   string

	logChannel chan traceMessage
	endChannel chan bool
	closed     bool
	locker     sync.Mutex
	waiter     sync.WaitGroup
}

// NewStdLogger builds a ZerologLogger writing to stderr, tagged with
// instanceID/publicIP the way the original application-restart/crash
// detection scheme intended: each restart gets a fresh instance tag.
func NewStdLogger(instanceID string, publicIP string) Logger {
	config := parseConfiguration()

	level, err := zerolog.ParseLevel(config.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	if len(instanceID) == 0 || config.ForceLocal {
		instanceID = "local"
	}
	if len(publicIP) == 0 {
		publicIP = "localhost"
	}

	base := zerolog.New(os.Stderr).Level(level).With().
		Timestamp().
		Str("app", config.AppName).
		Str("env", config.Environment).
		Str("instance", instanceID).
		Str("ip", publicIP).
		Logger()

	log := &ZerologLogger{
		zl:         base,
		instanceID: instanceID,
		publicIP:   publicIP,
		logChannel: make(chan traceMessage, config.Buffer),
		endChannel: make(chan bool),
	}

	log.waiter.Add(1)
	go log.performLogging()

	return log
}

// Trace enqueues a message for the background logging routine,
// non-blocking as long as the channel buffer isn't exhausted.
func (log *ZerologLogger) Trace(level Severity, module string, message string) {
	trace := traceMessage{level: level, module: module, content: message}

	log.locker.Lock()
	defer log.locker.Unlock()
	if !log.closed {
		log.logChannel <- trace
	}
}

// Release drains and stops the background logging routine, blocking
// until the last enqueued message has been written.
func (log *ZerologLogger) Release() {
	log.endChannel <- false

	log.locker.Lock()
	log.closed = true
	close(log.logChannel)
	log.locker.Unlock()

	log.waiter.Wait()
}

func (log *ZerologLogger) performLogging() {
	keepGoing := true
	for keepGoing {
		select {
		case keepGoing = <-log.endChannel:
		case trace := <-log.logChannel:
			log.performSingleLog(trace)
		}
	}

	for trace := range log.logChannel {
		log.performSingleLog(trace)
	}

	log.waiter.Done()
}

func (log *ZerologLogger) performSingleLog(trace traceMessage) {
	log.zl.WithLevel(trace.level.zerologLevel()).
		Str("module", trace.module).
		Msg(trace.content)
}
