// internal/cli/cli.go
//
// Package cli 為互動式選單介面：從 io.Reader 讀取指令，
// 將提示與結果寫到 io.Writer，並把帳本的錯誤轉成給使用者看的訊息。
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"bankapp/internal/bank"
	"bankapp/internal/ledger"
	"bankapp/internal/money"
	"bankapp/internal/service"
	"bankapp/internal/storage"
)

const menu = `--------------------------------
Currently selected account: %s
Enter command
1: open account
2: summary
3: select account
4: add transaction
5: list transactions
6: interest and fees
7: save
8: load
9: quit
>`

// CLI 為建立在 Service 之上的選單迴圈。
type CLI struct {
	svc      service.Service
	in       *bufio.Scanner
	out      io.Writer
	selected *bank.Account
	choices  map[string]func(context.Context) error
}

// New 建立從 in 讀取指令、寫到 out 的 CLI。
func New(svc service.Service, in io.Reader, out io.Writer) *CLI {
	c := &CLI{svc: svc, in: bufio.NewScanner(in), out: out}
	c.choices = map[string]func(context.Context) error{
		"1": c.openAccount,
		"2": c.summary,
		"3": c.selectAccount,
		"4": c.addTransaction,
		"5": c.listTransactions,
		"6": c.interestAndFees,
		"7": c.save,
		"8": c.load,
		"9": func(context.Context) error { return errQuit },
	}
	return c
}

// Run 反覆顯示選單，直到選擇離開或輸入結束。
// 使用者能處理的錯誤直接顯示訊息；其餘錯誤結束迴圈並回傳。
func (c *CLI) Run(ctx context.Context) error {
	for {
		fmt.Fprintf(c.out, menu, c.status())
		choice, err := c.readLine()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		action, ok := c.choices[choice]
		if !ok {
			fmt.Fprintf(c.out, "%s is not a valid choice\n", choice)
			continue
		}
		err = action(ctx)
		switch {
		case err == nil:
		case errors.Is(err, errQuit):
			return nil
		case errors.Is(err, ErrAccountNotSelected):
			fmt.Fprintln(c.out, "This command requires that you first select an account.")
		default:
			return err
		}
	}
}

func (c *CLI) status() string {
	if c.selected == nil {
		return "None"
	}
	return c.selected.String()
}

func (c *CLI) readLine() (string, error) {
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(c.in.Text()), nil
}

// prompt 顯示 msg 並讀取一行回答；輸入結束時視為離開。
func (c *CLI) prompt(msg string) (string, error) {
	fmt.Fprint(c.out, msg)
	line, err := c.readLine()
	if err != nil {
		return "", errQuit
	}
	return line, nil
}

func (c *CLI) openAccount(ctx context.Context) error {
	answer, err := c.prompt("Type of account? (checking/savings)\n>")
	if err != nil {
		return err
	}
	v, err := ledger.ParseVariant(answer)
	if err != nil {
		fmt.Fprintf(c.out, "%s is not a valid account type\n", answer)
		return nil
	}
	_, err = c.svc.OpenAccount(ctx, v)
	return err
}

func (c *CLI) summary(ctx context.Context) error {
	accounts, err := c.svc.Summary(ctx)
	if err != nil {
		return err
	}
	for _, a := range accounts {
		fmt.Fprintln(c.out, a)
	}
	return nil
}

func (c *CLI) selectAccount(ctx context.Context) error {
	id, err := c.prompt("Enter account number\n>")
	if err != nil {
		return err
	}
	a, err := c.svc.Account(ctx, id)
	if errors.Is(err, bank.ErrAccountNotFound) {
		c.selected = nil
		return nil
	}
	if err != nil {
		return err
	}
	c.selected = &a
	return nil
}

func (c *CLI) requireSelected() (string, error) {
	if c.selected == nil {
		return "", ErrAccountNotSelected
	}
	return c.selected.ID, nil
}

func (c *CLI) addTransaction(ctx context.Context) error {
	id, err := c.requireSelected()
	if err != nil {
		return err
	}

	var amount money.Money
	for {
		answer, err := c.prompt("Amount?\n>")
		if err != nil {
			return err
		}
		if amount, err = money.Parse(answer); err == nil {
			break
		}
		fmt.Fprintln(c.out, "Please try again with a valid dollar amount.")
	}

	var date ledger.Date
	for {
		answer, err := c.prompt("Date? (YYYY-MM-DD)\n>")
		if err != nil {
			return err
		}
		if date, err = ledger.ParseDate(answer); err == nil {
			break
		}
		fmt.Fprintln(c.out, "Please try again with a valid date in the format YYYY-MM-DD.")
	}

	a, err := c.svc.AddTransaction(ctx, id, amount, date)
	if err != nil {
		return c.report(err)
	}
	c.selected = &a
	return nil
}

func (c *CLI) listTransactions(ctx context.Context) error {
	id, err := c.requireSelected()
	if err != nil {
		return err
	}
	txs, err := c.svc.Transactions(ctx, id)
	if err != nil {
		return err
	}
	for _, tx := range txs {
		fmt.Fprintln(c.out, tx)
	}
	return nil
}

func (c *CLI) interestAndFees(ctx context.Context) error {
	id, err := c.requireSelected()
	if err != nil {
		return err
	}
	a, err := c.svc.AssessInterestAndFees(ctx, id)
	if a.ID != "" {
		c.selected = &a
	}
	if err != nil {
		return c.report(err)
	}
	return nil
}

func (c *CLI) save(ctx context.Context) error {
	c.selected = nil
	_, err := c.svc.Save(ctx)
	return err
}

func (c *CLI) load(ctx context.Context) error {
	_, err := c.svc.Load(ctx)
	if errors.Is(err, storage.ErrNoSnapshot) {
		fmt.Fprintln(c.out, "There is no saved bank to load.")
		return nil
	}
	if err != nil {
		return err
	}
	c.selected = nil
	return nil
}
