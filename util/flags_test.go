package util_test

import (
	"os"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/spf13/cobra"

	"github.com/astrbotdevs/astrctl/util"
)

var _ = Describe("Flags", func() {

	var (
		root      *cobra.Command
		child     *cobra.Command
		logLevel  string
		channel   string
		assumeYes bool
	)

	BeforeEach(func() {
		root = &cobra.Command{Use: "root"}
		child = &cobra.Command{Use: "child"}
		root.AddCommand(child)

		root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "")
		child.Flags().StringVar(&channel, "channel", "", "")
		child.Flags().BoolVar(&assumeYes, "yes", false, "")
	})

	AfterEach(func() {
		os.Unsetenv("ASTRBOT_LOG_LEVEL")
		os.Unsetenv("ASTRBOT_CHANNEL")
		os.Unsetenv("ASTRBOT_YES")
	})

	It("should set local and inherited flags from environment variables", func() {
		os.Setenv("ASTRBOT_LOG_LEVEL", "debug")
		os.Setenv("ASTRBOT_CHANNEL", "nightly")
		os.Setenv("ASTRBOT_YES", "true")

		util.SetFlagsFromEnvVars(child)

		Expect(logLevel).To(Equal("debug"))
		Expect(channel).To(Equal("nightly"))
		Expect(assumeYes).To(BeTrue())
	})

	It("should not override flags set on the command line", func() {
		os.Setenv("ASTRBOT_CHANNEL", "nightly")
		Expect(child.Flags().Set("channel", "stable")).To(Succeed())

		util.SetFlagsFromEnvVars(child)

		Expect(channel).To(Equal("stable"))
	})
})
