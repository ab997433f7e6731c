package config

type Sheets struct {
	CredentialsFile string `env:"GOOGLE_CREDENTIALS_FILE,required"`
	SpreadsheetID   string `env:"GOOGLE_SPREADSHEET_ID,required"`
	ReadRange       string `env:"GOOGLE_SHEETS_RANGE" envDefault:"Subscriptions!A2:I"`
}
