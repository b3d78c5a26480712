package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nullkey/goradieschen/client"
)

var (
	host = "127.0.0.1"
	port = 8888
)

var rootCmd = &cobra.Command{
	Use:   "goradieschen-cli",
	Short: "interactive client for a goradieschen server",
	RunE:  runREPL,
}

func init() {
	rootCmd.Flags().StringVarP(&host, "host", "H", host, "server host")
	rootCmd.Flags().IntVarP(&port, "port", "p", port, "server port")
}

const callerID client.CallerID = "cli"

func runREPL(cmd *cobra.Command, args []string) error {
	c := client.New(host, port, 60*time.Second)
	fmt.Printf("connected to %s:%d, type QUIT to exit\n", host, port)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return nil
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)

		reply, err := c.Execute(callerID, fields...)
		if err != nil {
			fmt.Println("error:", err)
			if fields[0] == "QUIT" || fields[0] == "SHUTDOWN" {
				return nil
			}
			continue
		}
		fmt.Println(client.String(reply))
		if fields[0] == "QUIT" || fields[0] == "SHUTDOWN" {
			return nil
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
