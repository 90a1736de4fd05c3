package cli

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"syscall"

	"github.com/binhbb2204/Anime-Hub-Group13/cli/config"
	"github.com/binhbb2204/Anime-Hub-Group13/pkg/models"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	username string
	email    string
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authentication commands",
	Long:  `Register, login, and logout commands for AnimeHub authentication.`,
}

func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	b, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(b), nil
}

var authRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a new account",
	Long:  `Register a new AnimeHub account with username and email.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := readPassword("Password: ")
		if err != nil {
			return err
		}
		confirm, err := readPassword("Confirm password: ")
		if err != nil {
			return err
		}
		if password != confirm {
			printError("Passwords do not match")
			return fmt.Errorf("passwords do not match")
		}

		client, err := newAPIClient(false)
		if err != nil {
			return err
		}

		var res models.AuthResponse
		err = client.do(http.MethodPost, "/auth/register", map[string]string{
			"username": username,
			"email":    email,
			"password": password,
		}, &res)
		if err != nil {
			msg := err.Error()
			switch {
			case strings.Contains(msg, "already exists"):
				printError(fmt.Sprintf("Registration failed: %s", msg))
				fmt.Printf("Try: animehub auth login --username %s\n", username)
			case strings.Contains(msg, "Invalid email"):
				printError("Registration failed: Invalid email format")
			case strings.Contains(msg, "weak"):
				printError("Registration failed: Password too weak")
				fmt.Println("Password must be at least 8 characters with mixed case and numbers")
			default:
				printError(fmt.Sprintf("Registration failed: %s", msg))
			}
			return fmt.Errorf("registration failed")
		}

		if err := config.UpdateUserToken(res.Username, res.Token); err != nil {
			fmt.Println("Warning: Failed to save token to config")
		}

		printSuccess("Account created successfully!")
		fmt.Printf("User ID: %s\n", res.UserID)
		fmt.Printf("Username: %s\n", res.Username)
		fmt.Printf("Email: %s\n", res.Email)
		fmt.Printf("Created: %s\n", res.CreatedAt.Format("2006-01-02 15:04:05 MST"))
		fmt.Println("\nYou are now logged in!")
		fmt.Println("Try: animehub search \"your favorite anime\"")
		return nil
	},
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Login to your account",
	Long:  `Login to your AnimeHub account with username or email.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if username == "" && email == "" {
			return fmt.Errorf("username or email is required (--username or --email)")
		}

		password, err := readPassword("Password: ")
		if err != nil {
			return err
		}

		client, err := newAPIClient(false)
		if err != nil {
			return err
		}

		body := map[string]string{"password": password}
		if username != "" {
			body["username"] = username
		} else {
			body["email"] = email
		}

		var res models.AuthResponse
		if err := client.do(http.MethodPost, "/auth/login", body, &res); err != nil {
			msg := err.Error()
			switch {
			case strings.Contains(msg, "Invalid credentials"):
				printError("Login failed: Invalid credentials")
				fmt.Println("Check your username and password")
			case strings.Contains(msg, "not found"):
				printError("Login failed: Account not found")
				fmt.Println("Try: animehub auth register --username <name> --email <email>")
			default:
				printError(fmt.Sprintf("Login failed: %s", msg))
			}
			return fmt.Errorf("login failed")
		}

		if err := config.UpdateUserToken(res.Username, res.Token); err != nil {
			fmt.Println("Warning: Failed to save token to config")
		}

		printSuccess("Login successful!")
		fmt.Printf("Welcome back, %s!\n", res.Username)
		fmt.Printf("  Token expires: %s\n", res.ExpiresAt.Format("2006-01-02 15:04:05 MST"))
		if res.IsPremium {
			fmt.Println("  Plan: Premium")
		} else {
			fmt.Println("  Plan: Free (animehub premium subscribe)")
		}
		return nil
	},
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Logout from your account",
	Long:  `Revoke the current session on the server and remove the stored token.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			printError("Configuration not found")
			fmt.Println("Run: animehub init")
			return err
		}
		if cfg.User.Token == "" {
			printInfo("You are not logged in")
			return nil
		}
		currentUser := cfg.User.Username

		if client, err := newAPIClient(true); err == nil {
			var apiErr *apiError
			if err := client.do(http.MethodPost, "/auth/logout", nil, nil); err != nil && !errors.As(err, &apiErr) {
				fmt.Println("Warning: server unreachable, token only removed locally")
			}
		}

		if err := config.ClearUserToken(); err != nil {
			return fmt.Errorf("failed to logout: %w", err)
		}

		printSuccess("Logged out successfully!")
		fmt.Printf("Goodbye, %s!\n", currentUser)
		return nil
	},
}

var authChangePasswordCmd = &cobra.Command{
	Use:   "change-password",
	Short: "Change your account password",
	Long:  `Change your AnimeHub account password with verification of current password.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient(true)
		if err != nil {
			return err
		}

		current, err := readPassword("Current password: ")
		if err != nil {
			return err
		}
		next, err := readPassword("New password: ")
		if err != nil {
			return err
		}
		confirm, err := readPassword("Confirm new password: ")
		if err != nil {
			return err
		}
		if next != confirm {
			printError("Passwords do not match")
			return fmt.Errorf("new passwords do not match")
		}

		err = client.do(http.MethodPost, "/auth/change-password", map[string]string{
			"current_password": current,
			"new_password":     next,
		}, nil)
		if err != nil {
			printError(fmt.Sprintf("Failed to change password: %v", err))
			return fmt.Errorf("password change failed")
		}

		printSuccess("Password changed successfully!")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient(true)
		if err != nil {
			return err
		}
		var me models.User
		if err := client.do(http.MethodGet, "/users/me", nil, &me); err != nil {
			printError(fmt.Sprintf("Failed to load profile: %v", err))
			return err
		}
		fmt.Printf("Username: %s\n", me.Username)
		fmt.Printf("Email: %s\n", me.Email)
		fmt.Printf("Premium: %v\n", me.IsPremium)
		if me.AvatarURL != "" {
			fmt.Printf("Avatar: %s\n", me.AvatarURL)
		}
		fmt.Printf("Member since: %s\n", me.CreatedAt.Format("2006-01-02"))
		return nil
	},
}

func init() {
	authRegisterCmd.Flags().StringVar(&username, "username", "", "Username for registration")
	authRegisterCmd.Flags().StringVar(&email, "email", "", "Email for registration")
	authRegisterCmd.MarkFlagRequired("username")
	authRegisterCmd.MarkFlagRequired("email")

	authLoginCmd.Flags().StringVar(&username, "username", "", "Username for login")
	authLoginCmd.Flags().StringVar(&email, "email", "", "Email for login")

	authCmd.AddCommand(authRegisterCmd)
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authChangePasswordCmd)
	authCmd.AddCommand(whoamiCmd)
}
