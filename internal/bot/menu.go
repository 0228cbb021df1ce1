package bot

import (
	"fmt"
	"strings"
	"time"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"trojan-bot/internal/models"
	"trojan-bot/internal/referral"
)

// Callback data values used by the inline keyboards.
const (
	ActionBuy         = "buy"
	ActionSell        = "sell"
	ActionPositions   = "positions"
	ActionLimitOrders = "limit_orders"
	ActionDCAOrders   = "dca_orders"
	ActionCopyTrade   = "copy_trade"
	ActionSniper      = "sniper"
	ActionTrenches    = "trenches"
	ActionRewards     = "rewards"
	ActionWatchlist   = "watchlist"
	ActionWithdraw    = "withdraw"
	ActionSettings    = "settings"
	ActionHelp        = "help"
	ActionRefresh     = "refresh"
	ActionBackToMain  = "back_to_main"
)

// Screen is a rendered message plus its keyboard.
type Screen struct {
	Text     string
	Markdown bool
	Keyboard *telego.InlineKeyboardMarkup
}

func mainKeyboard() *telego.InlineKeyboardMarkup {
	return tu.InlineKeyboard(
		tu.InlineKeyboardRow(
			tu.InlineKeyboardButton("Buy").WithCallbackData(ActionBuy),
			tu.InlineKeyboardButton("Sell").WithCallbackData(ActionSell),
		),
		tu.InlineKeyboardRow(
			tu.InlineKeyboardButton("Positions").WithCallbackData(ActionPositions),
			tu.InlineKeyboardButton("Limit Orders").WithCallbackData(ActionLimitOrders),
			tu.InlineKeyboardButton("DCA Orders").WithCallbackData(ActionDCAOrders),
		),
		tu.InlineKeyboardRow(
			tu.InlineKeyboardButton("Copy Trade").WithCallbackData(ActionCopyTrade),
			tu.InlineKeyboardButton("Sniper 🆕").WithCallbackData(ActionSniper),
		),
		tu.InlineKeyboardRow(
			tu.InlineKeyboardButton("Trenches").WithCallbackData(ActionTrenches),
			tu.InlineKeyboardButton("💰 Rewards").WithCallbackData(ActionRewards),
			tu.InlineKeyboardButton("⭐ Watchlist").WithCallbackData(ActionWatchlist),
		),
		tu.InlineKeyboardRow(
			tu.InlineKeyboardButton("Withdraw").WithCallbackData(ActionWithdraw),
			tu.InlineKeyboardButton("Settings").WithCallbackData(ActionSettings),
		),
		tu.InlineKeyboardRow(
			tu.InlineKeyboardButton("Help").WithCallbackData(ActionHelp),
			tu.InlineKeyboardButton("Refresh").WithCallbackData(ActionRefresh),
		),
	)
}

func backKeyboard() *telego.InlineKeyboardMarkup {
	return tu.InlineKeyboard(
		tu.InlineKeyboardRow(
			tu.InlineKeyboardButton("← Back").WithCallbackData(ActionBackToMain),
		),
	)
}

func MainMenu(u models.User) Screen {
	text := fmt.Sprintf("Solana • 🅴 `%s` (Tap to Copy)\n"+
		"Balance: %s SOL ($0.00)\n\n"+
		"Click on the Refresh button to update your current balance.\n\n"+
		"⚠️We have no control over ads shown by Telegram in this bot. Do not be scammed by fake airdrops or login pages.",
		u.TeamAddress, u.SolBalance.StringFixed(3))
	return Screen{Text: text, Markdown: true, Keyboard: mainKeyboard()}
}

// ScreenFor renders the static screen behind a callback action. Rewards and
// the main menu are rendered by the caller since they need more state.
func ScreenFor(action string, u models.User) Screen {
	switch action {
	case ActionSell:
		return Screen{Text: "*You do not have any tokens yet! Start trading in the Buy menu.*", Markdown: true, Keyboard: backKeyboard()}
	case ActionLimitOrders:
		return Screen{Text: "*You have no active limit orders. Create a limit order from the Buy/Sell menu.*", Markdown: true, Keyboard: backKeyboard()}
	case ActionDCAOrders:
		return Screen{Text: "*You have no active DCA orders. Create a DCA order from the Buy/Sell menu.*", Markdown: true, Keyboard: backKeyboard()}
	case ActionCopyTrade, ActionSniper, ActionTrenches, ActionWatchlist, ActionWithdraw, ActionSettings:
		text := fmt.Sprintf("You need to deposit at least 1 SOL on your wallet for this function to work\n`%s` (tap to copy)", u.TeamAddress)
		return Screen{Text: text, Markdown: true, Keyboard: backKeyboard()}
	case ActionBuy, ActionPositions, ActionHelp:
		return Screen{Text: "This feature is coming soon!", Keyboard: backKeyboard()}
	default:
		return Screen{Text: "Unknown action.", Keyboard: backKeyboard()}
	}
}

func RewardsScreen(v referral.RewardsView, now time.Time) Screen {
	var sb strings.Builder
	sb.WriteString("Cashback and Referral Rewards are paid out *every 12 hours* and airdropped directly to your Rewards Wallet. ")
	sb.WriteString("To be eligible, you must have at least 0.005 SOL in unpaid rewards.\n\n")
	sb.WriteString("*All Trojan users now enjoy a 10% boost to referral rewards and 20% cashback on trading fees.*\n\n")

	fmt.Fprintf(&sb, "Referral Rewards\n• Users referred: %d\n• Direct: %d, Indirect: %d\n• Earned rewards: %s SOL ($0.00)\n\n",
		v.DirectReferralCount+v.IndirectReferralCount, v.DirectReferralCount, v.IndirectReferralCount, v.ReferralRewards.StringFixed(3))
	fmt.Fprintf(&sb, "Cashback Rewards\n• Earned rewards: %s SOL ($0.00)\n\n", v.CashbackRewards.StringFixed(3))
	fmt.Fprintf(&sb, "Total Rewards\n• Total paid: %s SOL ($0.00)\n• Total unpaid: %s SOL ($0.00)\n\n",
		v.TotalPaidRewards.StringFixed(3), v.TotalUnpaid.StringFixed(3))
	fmt.Fprintf(&sb, "*Your Referral Link*\n`%s`\nYour friends save 10%% with your link.\n\n", v.ReferralLink)
	fmt.Fprintf(&sb, "Last updated at %s UTC (every 5 min)", now.UTC().Format("2006-01-02 15:04"))

	return Screen{Text: sb.String(), Markdown: true, Keyboard: backKeyboard()}
}

// ReferralLink builds the deep link that starts the bot with the user's code.
func ReferralLink(botUsername, prefix, userID string) string {
	return fmt.Sprintf("https://t.me/%s?start=%s", botUsername, referral.FormatCode(prefix, userID))
}

// StartArgs returns the payload after /start, or "" when there is none.
func StartArgs(text string) string {
	parts := strings.Fields(text)
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

// DisplayName picks the username, then the first name, then "User".
func DisplayName(u *telego.User) string {
	if u == nil {
		return "User"
	}
	if u.Username != "" {
		return u.Username
	}
	if u.FirstName != "" {
		return u.FirstName
	}
	return "User"
}
