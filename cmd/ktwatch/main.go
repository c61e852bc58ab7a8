package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/segmentio/cli"
	log "github.com/sirupsen/logrus"
	"k8s.io/klog/v2"

	"github.com/kubeterm/kubeterm/pkg/config"
	"github.com/kubeterm/kubeterm/pkg/plugin/kubectl"
	"github.com/kubeterm/kubeterm/pkg/tool"
	"github.com/kubeterm/kubeterm/pkg/view"
	"github.com/kubeterm/kubeterm/pkg/watch"
)

const (
	watchHelp = "block until a manifest's resources reach their final state"
	watchDesc = `
Watches the resources declared in a manifest until every one of them is
ready (or gone, with --gone), then exits. Intended for scripting around
kubectl apply/delete:

  kubectl apply -f manifest.yaml && ktwatch manifest.yaml
  kubectl delete -f manifest.yaml && ktwatch --gone manifest.yaml

Exits non-zero if the resources don't settle within the timeout.
`
)

type ktWatchConfig struct {
	Namespace      string `flag:"-n,--namespace" help:"Namespace for resources that don't declare one" default:"-"`
	Context        string `flag:"--context" help:"Cluster context to query" default:"-"`
	KubeConfigPath string `flag:"--kubeconfig" help:"Path to kubeconfig" default:"-"`
	Gone           bool   `flag:"--gone" help:"Wait for resources to disappear instead of becoming ready" default:"false"`
	TimeoutSec     int    `flag:"--timeout" help:"Seconds to wait before giving up" default:"600"`
	CeilingMs      int    `flag:"--poll-ceiling" help:"Max milliseconds between polls" default:"5000"`

	Debug bool `flag:"--debug" help:"Log at debug level" default:"false"`
}

func init() {
	log.SetLevel(log.InfoLevel)
	klog.SetOutput(os.Stderr)
}

func main() {
	cli.Exec(
		&cli.CommandFunc{
			Help: watchHelp,
			Desc: strings.TrimSpace(watchDesc),
			Func: func(config ktWatchConfig, manifestPath string) {
				if config.Debug {
					log.SetLevel(log.DebugLevel)
				}

				ctx := context.Background()
				if err := runKTWatch(ctx, manifestPath, config); err != nil {
					log.Fatal(err)
				}
			},
		},
	)
}

func runKTWatch(
	ctx context.Context,
	manifestPath string,
	watchConfig ktWatchConfig,
) error {
	cfg := config.Default()

	finalState := watch.FinalStateReady
	if watchConfig.Gone {
		finalState = watch.FinalStateGone
	}

	plugin := kubectl.New(cfg, &tool.ExecRunner{})
	session := plugin.Status(
		ctx,
		kubectl.StatusOptions{
			FilePath:       manifestPath,
			Namespace:      watchConfig.Namespace,
			Context:        watchConfig.Context,
			KubeConfigPath: watchConfig.KubeConfigPath,
			FinalState:     finalState,
			Initial:        cfg.PollInitial(),
			Ceiling: time.Duration(watchConfig.CeilingMs) *
				time.Millisecond,
		},
	)
	if session.Watcher == nil {
		return fmt.Errorf(
			"Could not resolve resources from %s",
			manifestPath,
		)
	}

	pusher := view.NewStreamPusher(session.Table, os.Stdout, false)
	doneCh := make(chan struct{})

	session.Watcher.Init(ctx, &doneSignaler{
		Pusher: pusher,
		doneCh: doneCh,
	})

	timeout := time.Duration(watchConfig.TimeoutSec) * time.Second

	select {
	case <-doneCh:
		return nil
	case <-time.After(timeout):
		session.Watcher.Abort()
		return fmt.Errorf(
			"Resources did not reach their final state within %s",
			timeout,
		)
	}
}

type doneSignaler struct {
	watch.Pusher
	doneCh chan struct{}
}

func (s *doneSignaler) Done() {
	s.Pusher.Done()
	close(s.doneCh)
}
