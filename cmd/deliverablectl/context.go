package main

import (
	"strings"
	"sync"

	deliverablereview "deliverables/contexts/campaign-editorial/deliverable-review-service"
	"deliverables/contexts/campaign-editorial/deliverable-review-service/domain/entities"
	"deliverables/internal/app/bootstrap"
)

type cliApp struct {
	module deliverablereview.Module
	actor  entities.Actor
	closer func() error
}

type appBuilder func(adminID string) (*cliApp, error)

type commandContext struct {
	adminFlag *string
	jsonFlag  *bool
	build     appBuilder

	appOnce sync.Once
	app     *cliApp
	appErr  error
}

func newCommandContext(adminFlag *string, jsonFlag *bool, build appBuilder) *commandContext {
	if build == nil {
		build = buildFromEnv
	}
	return &commandContext{
		adminFlag: adminFlag,
		jsonFlag:  jsonFlag,
		build:     build,
	}
}

func buildFromEnv(adminID string) (*cliApp, error) {
	app, err := bootstrap.BuildCLI(adminID)
	if err != nil {
		return nil, err
	}
	return &cliApp{module: app.Module, actor: app.Actor, closer: app.Close}, nil
}

func (c *commandContext) ensureApp() (*cliApp, error) {
	c.appOnce.Do(func() {
		var adminID string
		if c.adminFlag != nil {
			adminID = strings.TrimSpace(*c.adminFlag)
		}
		c.app, c.appErr = c.build(adminID)
	})
	return c.app, c.appErr
}

func (c *commandContext) jsonOutput() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

func (c *commandContext) close() error {
	if c.app == nil || c.app.closer == nil {
		return nil
	}
	return c.app.closer()
}
