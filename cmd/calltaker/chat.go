package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/cloudwego/eino/adk"
	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/tbxark/calltaker/agent"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the agent in the terminal",
	RunE:  runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	conf, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := agent.WithSessionKey(cmd.Context(), uuid.NewString())
	a, err := newApp(ctx, conf)
	if err != nil {
		return err
	}
	defer a.Close()

	runner := adk.NewRunner(ctx, adk.RunnerConfig{Agent: a.agent})
	reader := bufio.NewReader(os.Stdin)
	fmt.Println("Describe your problem and we'll register a complaint. Type /quit to exit.")
	for {
		fmt.Print("You: ")
		input, rErr := reader.ReadString('\n')
		if rErr != nil {
			fmt.Println()
			return nil
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if input == "/quit" {
			return nil
		}
		iter := runner.Run(ctx, []*schema.Message{schema.UserMessage(input)})
		for {
			event, ok := iter.Next()
			if !ok {
				break
			}
			if event.Err != nil {
				return event.Err
			}
			msg, mErr := event.Output.MessageOutput.GetMessage()
			if mErr != nil {
				return mErr
			}
			fmt.Printf("\n%s: %s\n\n", conf.Persona, msg.Content)
		}
	}
}
