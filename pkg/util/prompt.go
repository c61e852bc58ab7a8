package util

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Confirm asks the user for a yes/no confirmation on the command-line
// before a destructive operation proceeds. If skip is set the question is
// answered affirmatively without blocking.
func Confirm(ctx context.Context, prompt string, skip bool) (bool, error) {
	fmt.Printf("%s (yes/no) ", prompt)

	if skip {
		log.Infof("Automatically answering yes because skip is set")
		return true, nil
	}

	type answer struct {
		text string
		err  error
	}
	answerChan := make(chan answer, 1)

	go func() {
		reader := bufio.NewReader(os.Stdin)
		text, err := reader.ReadString('\n')
		answerChan <- answer{text: text, err: err}
	}()

	select {
	case resp := <-answerChan:
		if resp.err != nil {
			log.Warnf(
				"Got error reading response, not continuing: %+v",
				resp.err,
			)
			return false, resp.err
		}
		switch strings.TrimSpace(strings.ToLower(resp.text)) {
		case "y", "yes":
			return true, nil
		default:
			log.Infof("Not continuing")
			return false, nil
		}
	case <-ctx.Done():
		return false, ctx.Err()
	}
}
