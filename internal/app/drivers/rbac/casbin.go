package rbac

import (
	"log"

	"github.com/casbin/casbin/v2"
)

const (
	DefaultModelPath  = "resources/rbac_model.conf"
	DefaultPolicyPath = "resources/rbac_policy.csv"
)

func NewEnforcer(modelPath, policyPath string) *casbin.Enforcer {
	enforcer, err := casbin.NewEnforcer(modelPath, policyPath)
	if err != nil {
		log.Fatalf("Failed to load rbac policy: %s", err.Error())
	}
	log.Println("Successfully loaded rbac policy")
	return enforcer
}
