package identity

import (
	"log"
	"telemed-service/internal/app/config"

	"github.com/supertokens/supertokens-golang/recipe/emailpassword"
	"github.com/supertokens/supertokens-golang/recipe/session"
	"github.com/supertokens/supertokens-golang/recipe/userroles"
	"github.com/supertokens/supertokens-golang/supertokens"
)

// InitSupertokens registers the recipes used for subscriber accounts and sessions.
func InitSupertokens(driverConfig *config.DriverConfig) {
	apiBasePath := driverConfig.Supertoken.APIBasePath
	websiteBasePath := driverConfig.Supertoken.WebBasePath

	err := supertokens.Init(supertokens.TypeInput{
		Supertokens: &supertokens.ConnectionInfo{
			ConnectionURI: driverConfig.Supertoken.ConnectionURI,
			APIKey:        driverConfig.Supertoken.APIKey,
		},
		AppInfo: supertokens.AppInfo{
			AppName:         driverConfig.Supertoken.AppName,
			APIDomain:       driverConfig.Supertoken.APIDomain,
			WebsiteDomain:   driverConfig.Supertoken.WebsiteDomain,
			APIBasePath:     &apiBasePath,
			WebsiteBasePath: &websiteBasePath,
		},
		RecipeList: []supertokens.Recipe{
			emailpassword.Init(nil),
			userroles.Init(nil),
			session.Init(nil),
		},
	})
	if err != nil {
		log.Fatalf("Failed to initialize supertokens: %s", err.Error())
	}
	log.Println("Successfully initialized supertokens")
}
