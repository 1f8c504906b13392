package util_test

import (
	"context"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/astrbotdevs/astrctl/util"
)

var _ = Describe("File", func() {

	var (
		tmpDir string
	)

	type TestConfig struct {
		SomeMap   map[string]string
		SomeArray []string
		SomeField int
	}

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "astrctl_util_test_tmp_*")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		err := os.RemoveAll(tmpDir)
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("Config", func() {
		Context("in JSON format", func() {
			It("should be written and read successfully", func() {

				arr := []string{"value1", "value2"}

				written := &TestConfig{
					SomeMap:   map[string]string{"key1": "value1", "key2": "value2"},
					SomeArray: arr,
					SomeField: 99,
				}

				file := filepath.Join(tmpDir, "nested", "testconfig.json")
				err := util.WriteJson(context.Background(), file, written)
				Expect(err).NotTo(HaveOccurred())

				read, err := util.ReadJson(file, &TestConfig{})
				Expect(err).NotTo(HaveOccurred())
				Expect(read).NotTo(BeNil())
				Expect(read.(*TestConfig).SomeMap["key1"]).To(BeEquivalentTo(written.SomeMap["key1"]))
				Expect(read.(*TestConfig).SomeMap["key2"]).To(BeEquivalentTo(written.SomeMap["key2"]))
				Expect(read.(*TestConfig).SomeArray).To(ContainElements(arr))
				Expect(read.(*TestConfig).SomeField).To(BeEquivalentTo(written.SomeField))
			})

			It("should fail on a missing file", func() {
				_, err := util.ReadJson(filepath.Join(tmpDir, "missing.json"), &TestConfig{})
				Expect(os.IsNotExist(err)).To(BeTrue())
			})
		})
	})

	Describe("Atomic write", func() {
		It("should replace the file contents and leave no temporary files", func() {
			file := filepath.Join(tmpDir, "state", "id")

			Expect(util.WriteBytesAtomic(context.Background(), file, []byte("first"))).To(Succeed())
			Expect(util.WriteBytesAtomic(context.Background(), file, []byte("second"))).To(Succeed())

			content, err := os.ReadFile(file)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(content)).To(Equal("second"))

			entries, err := os.ReadDir(filepath.Dir(file))
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(1))
		})

		It("should not write when the context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			file := filepath.Join(tmpDir, "cancelled")
			Expect(util.WriteBytesAtomic(ctx, file, []byte("x"))).NotTo(Succeed())
			Expect(util.FileExists(file)).To(BeFalse())
		})
	})

	Describe("Existence helpers", func() {
		It("should tell files and directories apart", func() {
			file := filepath.Join(tmpDir, "file")
			Expect(os.WriteFile(file, []byte("x"), 0o600)).To(Succeed())

			Expect(util.FileExists(file)).To(BeTrue())
			Expect(util.DirExists(file)).To(BeFalse())
			Expect(util.DirExists(tmpDir)).To(BeTrue())
			Expect(util.FileExists(filepath.Join(tmpDir, "nope"))).To(BeFalse())
		})
	})
})
