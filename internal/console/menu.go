package console

import (
	"context"
	"io"

	"signal_bot/internal/models"
	auth "signal_bot/internal/modules/auth/service"
	"signal_bot/pkg/logger"

	"github.com/pkg/errors"
)

// Run: главное меню. nil при выходе (пункт Exit или конец ввода),
// auth.ErrTooManyAttempts после исчерпанных попыток входа.
func (c *Console) Run(ctx context.Context) error {
	for {
		c.banner()
		c.printf(c.title, "\nMain Menu:\n")
		c.printf(c.info, "1. Login\n2. Software Info\n3. Exit\n")

		choice, err := c.Ask("\nEnter your choice (1-3): ")
		if err != nil {
			return c.exit(err)
		}

		switch choice {
		case "1":
			if err := c.login(ctx); err != nil {
				return c.exit(err)
			}
		case "2":
			c.showPairs()
			if err := c.pause(); err != nil {
				return c.exit(err)
			}
		case "3":
			c.copyright()
			c.printf(c.alert, "\nExiting program...\n")
			return nil
		default:
			c.printf(c.alert, "Invalid choice. Please try again.\n")
		}
	}
}

// exit: конец ввода считается штатным выходом, остальное уходит наверх.
func (c *Console) exit(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (c *Console) login(ctx context.Context) error {
	sess, err := c.auth.Login(ctx, c)
	switch {
	case err == nil:
	case errors.Is(err, auth.ErrLicenseExpired):
		c.printf(c.alert, "\nYour license has expired. Join @growupbinarytrading for more updates.\n")
		return c.pause()
	case errors.Is(err, auth.ErrTooManyAttempts):
		c.printf(c.alert, "\nToo many failed attempts. Please try again later.\n")
		return err
	default:
		return err
	}

	if sess.Auto {
		c.printf(c.success, "\nAutomatic login successful! Welcome back, %s!\n", sess.Username)
	}
	logger.Info("[CONSOLE] %s logged in", sess.Username)
	return c.signalMenu(ctx, sess)
}

// signalMenu крутится, пока сессия жива и оператор не вышел.
func (c *Console) signalMenu(ctx context.Context, sess models.Session) error {
	for {
		if err := c.auth.Check(sess); err != nil {
			c.printf(c.alert, "\nYour license has expired. Join @growupbinarytrading for more updates.\n")
			return nil
		}

		c.banner()
		c.printf(c.title, "\nWelcome, %s! Your license is valid until: %s\n", sess.Username, formatExpiry(sess.ExpireAt))
		c.printf(c.title, "\nSignal Menu:\n")
		c.printf(c.info, "1. Fetch Signals\n"+
			"2. Default Settings\n"+
			"3. Show Available Pairs\n"+
			"4. Auto Send Signals\n"+
			"5. Configure Auto Bot Settings\n"+
			"6. Customize Signal Message\n"+
			"7. Reset All Settings to Default\n"+
			"8. Change Password\n"+
			"9. Logout\n")

		choice, err := c.Ask("\nEnter your choice (1-9): ")
		if err != nil {
			return err
		}

		var actionErr error
		switch choice {
		case "1":
			actionErr = c.fetchSignals(ctx)
		case "2":
			actionErr = c.defaultSettings()
		case "3":
			c.showPairs()
		case "4":
			actionErr = c.autoSend(ctx)
		case "5":
			actionErr = c.configureAutoBot()
		case "6":
			actionErr = c.customizeMessage()
		case "7":
			actionErr = c.resetAll()
		case "8":
			actionErr = c.changePassword(sess.Username)
		case "9":
			c.printf(c.alert, "Logging out...\n")
			logger.Info("[CONSOLE] %s logged out", sess.Username)
			return nil
		default:
			c.printf(c.alert, "Invalid choice. Please try again.\n")
			continue
		}
		if actionErr != nil {
			if errors.Is(actionErr, io.EOF) {
				return actionErr
			}
			c.printf(c.alert, "Error in signal menu: %v\n", actionErr)
		}
		if err := c.pause(); err != nil {
			return err
		}
	}
}
