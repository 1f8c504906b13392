package util_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	log "github.com/sirupsen/logrus"

	"github.com/astrbotdevs/astrctl/util"
)

var _ = Describe("Log", func() {

	var (
		tmpDir string
	)

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "astrctl_log_test_tmp_*")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		Expect(util.InitLog("info", util.LogConsole)).To(Succeed())
		Expect(os.RemoveAll(tmpDir)).To(Succeed())
	})

	It("should reject an unknown level", func() {
		Expect(util.InitLog("verbose", util.LogConsole)).NotTo(Succeed())
	})

	It("should write to the log file", func() {
		logFile := filepath.Join(tmpDir, "astrctl.log")
		Expect(util.InitLog("debug", logFile)).To(Succeed())
		Expect(log.GetLevel()).To(Equal(log.DebugLevel))

		log.Debug("dashboard check started")

		content, err := os.ReadFile(logFile)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(content)).To(ContainSubstring("DEBG"))
		Expect(string(content)).To(ContainSubstring("dashboard check started"))
	})
})
